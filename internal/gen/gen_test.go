//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetUnion(t *testing.T) {
	u := SetUnion(ToSet([]string{"de", "het"}), ToSet([]string{"the", "de"}))
	assert.Len(t, u, 3)
	assert.Contains(t, u, "the")
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2, Clamp(1, 2, 5))
	assert.Equal(t, 5, Clamp(9, 2, 5))
	assert.Equal(t, 3, Clamp(3, 2, 5))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", TruncateRunes("héllo", 4))
	assert.Equal(t, "hi", TruncateRunes("hi", 4))
}

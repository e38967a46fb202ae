//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBar(t *testing.T) {
	html, err := Bar("VADER", "3 rows", []string{"Positive", "Negative"}, []float64{2, 1})
	require.NoError(t, err)
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Positive")
	assert.Contains(t, html, "echarts")

	_, err = Bar("x", "", nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = Bar("x", "", []string{"a"}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPage(t *testing.T) {
	html, err := Page("Topic keywords", []Group{
		{Title: "0_price_cost", Labels: []string{"price", "cost"}, Values: []float64{0.12, 0.08}},
		{Title: "empty"},
		{Title: "1_lecturer", Labels: []string{"lecturer"}, Values: []float64{0.2}},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "0_price_cost")
	assert.Contains(t, html, "1_lecturer")
	assert.NotContains(t, html, `"empty"`)

	_, err = Page("nothing", []Group{{Title: "a"}})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestScatter(t *testing.T) {
	html, err := Scatter("Intertopic distance map", "", []Point{
		{Name: "0_price_cost", X: 0.4, Y: -0.1, Size: 30},
		{Name: "1_lecturer_lecture", X: -0.3, Y: 0.2, Size: 10},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "0_price_cost")
	assert.Contains(t, html, "scatter")

	_, err = Scatter("x", "", nil)
	assert.ErrorIs(t, err, ErrNoData)
}

//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lexcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Load(ctx, "names")
	assert.ErrorIs(t, err, ErrNotCached)

	require.NoError(t, db.Save(ctx, "names", []string{"jan", "anna", "jan"}))
	got, err := db.Load(ctx, "names")
	require.NoError(t, err)
	assert.Equal(t, []string{"anna", "jan"}, got)

	require.NoError(t, db.Save(ctx, "names", []string{"piet"}))
	got, err = db.Load(ctx, "names")
	require.NoError(t, err)
	assert.Equal(t, []string{"piet"}, got, "save replaces the list")

	_, err = db.Load(ctx, "illnesses")
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lex.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "illnesses", []string{"griep", "migraine"}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Load(ctx, "illnesses")
	require.NoError(t, err)
	assert.Equal(t, []string{"griep", "migraine"}, got)
}

//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package frame

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Frame {
	t.Helper()
	return FromRecords([]string{"id", "response"}, [][]string{
		{"1", "Great course!"},
		{"2", ""},
		{"3", "Terrible, I hated it."},
		{"4", "ok"},
	})
}

func TestFromRecords(t *testing.T) {
	f := sample(t)
	assert.Equal(t, []string{"id", "response"}, f.Columns())
	assert.Equal(t, 4, f.Len())

	c, err := f.Cell(1, "response")
	require.NoError(t, err)
	assert.Equal(t, Null, c.Kind)
	assert.True(t, c.IsBlank())

	c, err = f.Cell(0, "response")
	require.NoError(t, err)
	assert.Equal(t, TextCell("Great course!"), c)
}

func TestFromRecordsHeaderRepair(t *testing.T) {
	f := FromRecords([]string{"a", "a", ""}, [][]string{{"1", "2", "3", "4"}})
	assert.Equal(t, []string{"a", "a_2", "Column_3", "Column_4"}, f.Columns())
	c, _ := f.Cell(0, "Column_4")
	assert.Equal(t, "4", c.String())
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]string{"x", "x"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestWithColumnAppendsAndOverwrites(t *testing.T) {
	f := sample(t)
	scores := []Cell{NumberCell(1), NumberCell(2), NumberCell(3), NumberCell(4)}

	g, err := f.WithColumn("score", scores)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "response", "score"}, g.Columns())
	assert.False(t, f.Has("score"), "original frame must not change")

	h, err := g.WithColumn("score", []Cell{NumberCell(9), NumberCell(9), NumberCell(9), NumberCell(9)})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "response", "score"}, h.Columns())
	c, _ := h.Cell(0, "score")
	assert.Equal(t, 9.0, c.Num)
	c, _ = g.Cell(0, "score")
	assert.Equal(t, 1.0, c.Num)

	_, err = f.WithColumn("short", []Cell{NullCell()})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestTextColumn(t *testing.T) {
	f := sample(t)
	g, err := f.WithColumn("score", []Cell{NumberCell(1), NullCell(), NullCell(), NullCell()})
	require.NoError(t, err)

	_, err = g.TextColumn("score")
	assert.ErrorIs(t, err, ErrNotText)
	_, err = g.TextColumn("nope")
	assert.ErrorIs(t, err, ErrNoSuchColumn)
	cc, err := g.TextColumn("response")
	require.NoError(t, err)
	assert.Len(t, cc, 4)
}

func TestFilterKeepsProvenance(t *testing.T) {
	f := sample(t)
	g := f.Filter(func(r int) bool { return r%2 == 0 })
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []int{0, 2}, g.RowIDs())

	h := g.Filter(func(r int) bool { return r == 1 })
	assert.Equal(t, []int{2}, h.RowIDs())
	c, _ := h.Cell(0, "response")
	assert.Equal(t, "Terrible, I hated it.", c.Text)
}

func TestCloneAndEqual(t *testing.T) {
	f := sample(t)
	g := f.Clone()
	assert.True(t, f.Equal(g))
	assert.True(t, g.Equal(f))

	h, _ := g.WithColumn("x", make([]Cell, 4))
	assert.False(t, f.Equal(h))
	assert.False(t, f.Equal(f.Head(2)))
	assert.False(t, f.Equal(nil))
}

func TestCSVRoundTrip(t *testing.T) {
	f := sample(t)
	var buf bytes.Buffer
	require.NoError(t, f.WriteCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "id,response\n"))

	g, err := ReadCSV(&buf)
	require.NoError(t, err)
	if d := cmp.Diff(f.Records(), g.Records()); d != "" {
		t.Errorf("records differ (-want +got):\n%s", d)
	}
}

func TestReadCSVSemicolon(t *testing.T) {
	in := "\uFEFFname;comment\nJan;Goed gedaan, echt\nPiet;\n;\n"
	f, err := ReadSpreadsheet("survey.csv", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "comment"}, f.Columns())
	assert.Equal(t, 2, f.Len())
	c, _ := f.Cell(0, "comment")
	assert.Equal(t, "Goed gedaan, echt", c.Text)
}

func TestReadSpreadsheetErrors(t *testing.T) {
	_, err := ReadSpreadsheet("notes.docx", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = ReadSpreadsheet("empty.csv", strings.NewReader("\n\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ReadSpreadsheet("broken.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestXLSXRoundTrip(t *testing.T) {
	f := sample(t)
	var buf bytes.Buffer
	require.NoError(t, f.WriteXLSX(&buf))

	g, err := ReadSpreadsheet("export.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, f.Columns(), g.Columns())
	assert.Equal(t, f.Len(), g.Len())
	assert.Equal(t, f.Records(), g.Records())
}

func TestTable(t *testing.T) {
	tb := sample(t).Table(2)
	assert.Equal(t, 4, tb.Total)
	assert.Len(t, tb.Rows, 2)
	assert.Equal(t, []string{"1", "Great course!"}, tb.Rows[0])
}

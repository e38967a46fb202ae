//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package frame

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	SHEETNAME = "Sheet1"
	UTF8BOM   = "\uFEFF"
)

// ReadSpreadsheet - dispatch on the file extension; the first row is the header
func ReadSpreadsheet(filename string, r io.Reader) (*Frame, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv", ".txt":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, filename)
	}
}

// ReadXLSX - first sheet only
func ReadXLSX(r io.Reader) (*Frame, error) {
	xf, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read spreadsheet: %w", err)
	}
	defer xf.Close()

	sheets := xf.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := xf.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	return fromrows(rows)
}

// ReadCSV - ';' or ',' separated; whichever occurs more often in the header line wins
func ReadCSV(r io.Reader) (*Frame, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, []byte(UTF8BOM))

	cr := csv.NewReader(bytes.NewReader(b))
	cr.Comma = sniffseparator(b)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse csv: %w", err)
	}
	return fromrows(rows)
}

func sniffseparator(b []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		return ';'
	}
	first := sc.Text()
	if strings.Count(first, ",") > strings.Count(first, ";") {
		return ','
	}
	return ';'
}

// fromrows - drop trailing blank rows; a header with no rows beneath it is still a (zero-row) frame
func fromrows(rows [][]string) (*Frame, error) {
	for len(rows) > 0 && blankrow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return FromRecords(rows[0], rows[1:]), nil
}

func blankrow(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteCSV - comma separated, header first
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.cols); err != nil {
		return err
	}
	if err := cw.WriteAll(f.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX - one sheet; numbers stay numbers
func (f *Frame) WriteXLSX(w io.Writer) error {
	xf := excelize.NewFile()
	defer xf.Close()

	header := make([]interface{}, len(f.cols))
	for i, c := range f.cols {
		header[i] = c
	}
	if err := xf.SetSheetRow(SHEETNAME, "A1", &header); err != nil {
		return err
	}

	for r := 0; r < f.Len(); r++ {
		row := make([]interface{}, len(f.cols))
		for c := range f.cols {
			cell := f.data[c][r]
			switch cell.Kind {
			case Number:
				row[c] = cell.Num
			case Text:
				row[c] = cell.Text
			default:
				row[c] = nil
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err = xf.SetSheetRow(SHEETNAME, addr, &row); err != nil {
			return err
		}
	}
	return xf.Write(w)
}

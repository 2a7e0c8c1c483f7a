package dataset

import (
	"errors"
	"fmt"

	"github.com/extrame/xls"
	pkgerrors "github.com/pkg/errors"
)

type xlsReader struct{}

func (xlsReader) CanRead(filename string) bool { return hasExt(filename, ".xls") }

// Read loads the first sheet of a legacy BIFF workbook. The decoder panics on
// some malformed files; those panics are returned as errors.
func (xlsReader) Read(path string) (ds *Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			ds, err = nil, fmt.Errorf("corrupt xls file: %v", r)
		}
	}()
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open xls")
	}
	if wb == nil {
		return nil, errors.New("no workbook stream in file")
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}
	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		rec := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			rec[j] = row.Col(j)
		}
		records = append(records, rec)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, errors.New("no columns to parse from file")
	}
	return FromRecords(records[0], trimEmptyTail(records[1:]))
}

// sheetRow returns row i, or nil when the sheet stores no such row.
// WorkSheet.Row dereferences absent rows.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

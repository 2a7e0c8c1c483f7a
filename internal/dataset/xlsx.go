package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool { return hasExt(filename, ".xlsx") }

// Read loads the first worksheet (workbook order) of an Office Open XML workbook.
func (xlsxReader) Read(p string) (*Dataset, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read xlsx")
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open xlsx")
	}
	wb := &workbook{zr: zr}
	target, err := wb.firstSheet()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	sheetXML, err := wb.file(target)
	if err != nil {
		return nil, err
	}
	shared, err := wb.sharedStrings()
	if err != nil {
		return nil, err
	}
	rr := &sheetRows{dec: xml.NewDecoder(bytes.NewReader(sheetXML)), shared: shared}
	first, header, ok := rr.next()
	if rr.err != nil {
		return nil, pkgerrors.Wrap(rr.err, "parse worksheet")
	}
	if !ok || len(header) == 0 {
		return nil, errors.New("no columns to parse from file")
	}
	var rows [][]string
	for {
		num, row, ok := rr.next()
		if !ok {
			break
		}
		// Rows absent from the sheet are blank and read as all missing.
		for len(rows) < num-first-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, row)
	}
	if rr.err != nil {
		return nil, pkgerrors.Wrap(rr.err, "parse worksheet")
	}
	return FromRecords(header, trimEmptyTail(rows))
}

type workbook struct {
	zr *zip.Reader
}

type sheetEntry struct {
	Name string
	RID  string
}

func (w *workbook) file(name string) ([]byte, error) {
	for _, f := range w.zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "open %s", name)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing part %s", name)
}

func (w *workbook) firstSheet() (string, error) {
	wbXML, err := w.file("xl/workbook.xml")
	if err != nil {
		return "", err
	}
	sheets := parseSheets(wbXML)
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	// Relationships are optional in hand-built files; fall back to the
	// conventional worksheet path.
	if relsXML, err := w.file("xl/_rels/workbook.xml.rels"); err == nil {
		if target, ok := parseRelationships(relsXML)[sheets[0].RID]; ok {
			return normalizeRelPath(target), nil
		}
	}
	return "xl/worksheets/sheet1.xml", nil
}

func (w *workbook) sharedStrings() ([]string, error) {
	data, err := w.file("xl/sharedStrings.xml")
	if err != nil {
		// Workbooks with only numeric cells omit the part.
		return nil, nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		out []string
		buf strings.Builder
		inT bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, pkgerrors.Wrap(err, "parse shared strings")
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inT {
				buf.Write(se)
			}
		}
	}
}

func parseSheets(data []byte) []sheetEntry {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []sheetEntry
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s sheetEntry
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "id":
				s.RID = a.Value
			}
		}
		sheets = append(sheets, s)
	}
}

func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

// normalizeRelPath maps a relationship target to its ZIP entry name. Targets
// may be absolute ("/xl/worksheets/sheet1.xml") or relative to xl/.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

// Worksheet bounds of the Office Open XML format.
const (
	maxSheetRows    = 1048576
	maxSheetColumns = 16384
)

// sheetRows streams rows of a worksheet as dense string slices.
type sheetRows struct {
	dec    *xml.Decoder
	shared []string
	last   int
	err    error
}

// next returns the 1-based number of the next stored row and its cells.
// Rows without an r attribute follow the previous one.
func (r *sheetRows) next() (int, []string, bool) {
	var row []string
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if err != io.EOF {
				r.err = err
			}
			return 0, nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				num := r.last + 1
				if v, ok := attr(se, "r"); ok {
					n, err := strconv.Atoi(v)
					if err != nil || n <= r.last || n > maxSheetRows {
						r.err = fmt.Errorf("invalid row reference %q", v)
						return 0, nil, false
					}
					num = n
				}
				r.last = num
				inRow = true
				row = nil
				continue
			}
			if !inRow || se.Name.Local != "c" {
				continue
			}
			typ, _ := attr(se, "t")
			idx := len(row)
			if ref, ok := attr(se, "r"); ok && ref != "" {
				idx = colIndexFromRef(ref)
				if idx < 0 {
					r.err = fmt.Errorf("invalid cell reference %q", ref)
					return 0, nil, false
				}
			}
			val := r.cellValue(typ)
			if idx >= len(row) {
				grown := make([]string, idx+1)
				copy(grown, row)
				row = grown
			}
			row[idx] = val
		case xml.EndElement:
			if se.Name.Local == "row" && inRow {
				return r.last, row, true
			}
		}
	}
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// cellValue consumes tokens up to the closing </c> and resolves the cell text.
func (r *sheetRows) cellValue(typ string) string {
	var val strings.Builder
	capture := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			r.err = err
			return val.String()
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				capture = true
			}
		case xml.CharData:
			if capture {
				val.Write(se)
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "v", "t":
				capture = false
			case "c":
				s := val.String()
				switch typ {
				case "s":
					i := atoiSafe(s)
					if i >= 0 && i < len(r.shared) {
						return r.shared[i]
					}
					return ""
				case "b":
					if s == "1" {
						return "True"
					}
					return "False"
				}
				return s
			}
		}
	}
}

// colIndexFromRef converts "C12" to 2. It returns -1 when ref has no column
// letters or names a column past the sheet limit.
func colIndexFromRef(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
		if idx > maxSheetColumns {
			return -1
		}
	}
	return idx - 1
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func trimEmptyTail(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		empty := true
		for _, v := range last {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}

package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding is a candidate text encoding tried when reading CSV files.
type Encoding struct {
	Name   string
	Decode func([]byte) ([]byte, error)
}

var errInvalidText = errors.New("invalid byte sequence")

// Encodings lists the encodings tried, in order, for CSV input. ISO-8859-1
// maps every byte to a rune, so in practice the latin-1 entry accepts any
// file utf-8 rejects and DecodeError is only returned when this list is
// replaced with stricter decoders.
var Encodings = []Encoding{
	{Name: "utf-8", Decode: decodeUTF8},
	{Name: "latin-1", Decode: decodeCharmap(charmap.ISO8859_1)},
	{Name: "iso-8859-1", Decode: decodeCharmap(charmap.ISO8859_1)},
}

func decodeUTF8(b []byte) ([]byte, error) {
	if !utf8.Valid(b) {
		return nil, errInvalidText
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), b)
	return out, err
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) ([]byte, error) {
	return func(b []byte) ([]byte, error) {
		return cm.NewDecoder().Bytes(b)
	}
}

type csvReader struct{}

func (csvReader) CanRead(filename string) bool {
	return hasExt(filename, ".csv", ".tsv", ".txt")
}

// Read decodes the file with the first encoding that accepts its bytes and
// parses it as delimited text with a header row.
func (csvReader) Read(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: filepath.Base(path), Err: pkgerrors.Wrap(err, "read csv")}
	}
	tried := make([]string, 0, len(Encodings))
	for _, enc := range Encodings {
		tried = append(tried, enc.Name)
		text, err := enc.Decode(raw)
		if err != nil {
			continue
		}
		ds, err := parseDelimited(bytes.NewReader(text), sniffDelimiter(path))
		if err != nil {
			return nil, &LoadError{Path: filepath.Base(path), Err: err}
		}
		return ds, nil
	}
	return nil, &DecodeError{Path: filepath.Base(path), Tried: tried}
}

func parseDelimited(r io.Reader, delim rune) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no columns to parse from file")
		}
		return nil, pkgerrors.Wrap(err, "read header")
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, pkgerrors.Wrapf(err, "read row %d", len(rows)+2)
		}
		rows = append(rows, rec)
	}
	return FromRecords(header, rows)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// Package ingest turns an uploaded CSV or XLSX file, or a file retrieved
// from an FTP drop, into the (header, rows) shape the row parser consumes
// uniformly regardless of source format.
package ingest

import (
	"bytes"
	"encoding/csv"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// ErrBadEncoding is returned when the uploaded file is not valid UTF-8.
var ErrBadEncoding = eris.New("ingest: unsupported file encoding")

// ErrMalformedArchive is returned when an XLSX file cannot be opened or
// parsed, standing in for the "file may be damaged" case.
var ErrMalformedArchive = eris.New("ingest: file may be damaged")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV validates encoding and splits a CSV file into its raw header
// line and its body rows. Recognized columns are matched case-
// insensitively downstream by the row parser; unknown columns are
// ignored there, not here.
func ReadCSV(data []byte) (header string, rows [][]string, err error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", nil, ErrBadEncoding
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return "", nil, eris.Wrap(err, "ingest: read csv")
	}
	if len(records) == 0 {
		return "", nil, nil
	}

	header = rawFirstLine(data)
	return header, records[1:], nil
}

// rawFirstLine returns the input's first line verbatim, so a header field's
// original quoting survives even though the parsed records do not retain it.
func rawFirstLine(data []byte) string {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	return string(bytes.TrimSuffix(line, []byte("\r")))
}

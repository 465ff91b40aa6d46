package ingest

import (
	"bytes"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads the first sheet of an XLSX file and re-encodes it to the
// same (header, rows) shape ReadCSV produces: row 0 joined with commas
// forms the header, and subsequent rows are quoted-CSV-encoded so the row
// parser can consume either source uniformly. The tealeg/xlsx/v2 decoder
// uses encoding/xml under the hood, which never resolves external
// entities, so the classic XXE archive-bomb vector is structurally
// closed; any open/parse failure here (corrupt zip, malformed part) is
// reported as ErrMalformedArchive.
func ReadXLSX(data []byte) (header string, rows [][]string, err error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return "", nil, eris.Wrapf(ErrMalformedArchive, "xlsx: %v", err)
	}
	if len(f.Sheets) == 0 {
		return "", nil, eris.Wrap(ErrMalformedArchive, "xlsx: no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return "", nil, nil
	}

	header = strings.Join(rowToStrings(sheet.Rows[0]), ",")

	rows = make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, quoteRow(rowToStrings(row)))
	}

	return header, rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = c.String()
	}
	return cells
}

// quoteRow re-encodes a raw cell slice as it would appear after a CSV
// quoted round trip, so downstream parsing sees identical escaping
// regardless of whether the original file was CSV or XLSX.
func quoteRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if strings.ContainsAny(c, ",\"\n") {
			var b bytes.Buffer
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(c, `"`, `""`))
			b.WriteByte('"')
			out[i] = b.String()
			continue
		}
		out[i] = c
	}
	return out
}

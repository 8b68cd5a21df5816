// Package tabular parses spreadsheet uploads (CSV, XLSX) into candidate
// records via column mapping and type inference.
package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// Row is one parsed spreadsheet row keyed by column header.
type Row map[string]string

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSV parses CSV content into header-keyed rows. Rows that fail to
// parse are reported as item errors without aborting the read; an
// unreadable header is a systemic error.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]string, []Row, []model.ItemError, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err != nil {
		return nil, nil, nil, eris.Wrap(err, "csv: read header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []Row
	var itemErrs []model.ItemError
	for index := 0; ; index++ {
		if ctx.Err() != nil {
			return header, rows, itemErrs, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			itemErrs = append(itemErrs, model.ItemError{Index: index, Err: err.Error()})
			continue
		}

		row := make(Row, len(header))
		for i, h := range header {
			if i >= len(record) {
				break
			}
			v := record[i]
			if opts.TrimSpace {
				v = strings.TrimSpace(v)
			}
			row[h] = v
		}
		rows = append(rows, row)
	}

	return header, rows, itemErrs, nil
}

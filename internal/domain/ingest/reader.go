package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/okian/smtgolf/internal/domain/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Result is the outcome of reading one CSV export.
type Result struct {
	Rows   []model.RawRow
	Issues []Issue
}

// ReadRows parses a header-less tracker export. Blank lines are skipped and
// records may have any number of fields.
func ReadRows(r io.Reader) (Result, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var res Result
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}
		line, _ := cr.FieldPos(0)

		row, issues := ParseRow(record)
		for i := range issues {
			issues[i].Line = line
		}
		res.Rows = append(res.Rows, row)
		res.Issues = append(res.Issues, issues...)
	}
	return res, nil
}

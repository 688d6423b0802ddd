package ingest

import "errors"

// ErrMalformedCSV reports input that encoding/csv cannot tokenize at all.
var ErrMalformedCSV = errors.New("malformed csv")

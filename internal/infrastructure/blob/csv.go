package blob

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

const maxSafeInteger = 1<<53 - 1

var floatPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// ParseCSV reads a header row and returns one RawRow per record with inferred
// value types. Field count mismatches are collected and returned as
// dataset.ParseErrors.
func ParseCSV(r io.Reader) ([]dataset.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []dataset.RawRow{}, nil
	}
	if err != nil {
		return nil, dataset.ParseErrors{quoteError(err, 0)}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]dataset.RawRow, 0, 64)
	var parseErrs dataset.ParseErrors
	for idx := 0; ; idx++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			parseErrs = append(parseErrs, quoteError(err, idx))
			break
		}

		switch {
		case len(record) < len(header):
			parseErrs = append(parseErrs, dataset.ParseError{
				Type:    "FieldMismatch",
				Code:    "TooFewFields",
				Message: fmt.Sprintf("Too few fields: expected %d fields but parsed %d", len(header), len(record)),
				Row:     idx,
			})
		case len(record) > len(header):
			parseErrs = append(parseErrs, dataset.ParseError{
				Type:    "FieldMismatch",
				Code:    "TooManyFields",
				Message: fmt.Sprintf("Too many fields: expected %d fields but parsed %d", len(header), len(record)),
				Row:     idx,
			})
		}

		row := make(dataset.RawRow, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = InferValue(record[i])
			}
		}
		rows = append(rows, row)
	}

	if len(parseErrs) > 0 {
		return nil, parseErrs
	}
	return rows, nil
}

// InferValue types one CSV field: empty is nil, true/false in lower or upper
// case is a bool, a decimal is a float64, anything else stays a string.
func InferValue(s string) any {
	switch s {
	case "":
		return nil
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}

	if floatPattern.MatchString(s) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && f >= -maxSafeInteger && f <= maxSafeInteger {
			return f
		}
	}
	return s
}

func quoteError(err error, row int) dataset.ParseError {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return dataset.ParseError{
			Type:    "Quotes",
			Code:    "InvalidQuotes",
			Message: csvErr.Err.Error(),
			Row:     row,
		}
	}
	return dataset.ParseError{Type: "Read", Code: "ReadFailed", Message: err.Error(), Row: row}
}

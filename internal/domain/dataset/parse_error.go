package dataset

import (
	"fmt"
	"strings"
)

// ParseError describes one malformed CSV record. Row is the zero-based data row.
type ParseError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Row     int    `json:"row"`
}

// ParseErrors is returned when a file parsed with errors; no rows are served.
type ParseErrors []ParseError

func (e ParseErrors) Error() string {
	if len(e) == 0 {
		return "csv parse error"
	}
	msgs := make([]string, 0, len(e))
	for _, pe := range e {
		msgs = append(msgs, fmt.Sprintf("row %d: %s", pe.Row, pe.Message))
	}
	return "csv parse error: " + strings.Join(msgs, "; ")
}

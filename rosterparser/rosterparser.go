package rosterparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"triotag/models"
)

// ErrEmpty is returned when the input holds no participant rows.
var ErrEmpty = errors.New("no participant rows found")

// LineError reports a malformed CSV line.
type LineError struct {
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func isHeader(row []string) bool {
	return strings.EqualFold(strings.TrimSpace(row[0]), "name")
}

// Parse reads "name,gender" rows. A header whose first cell is "name" and blank
// lines are skipped; extra columns are ignored. Values are trimmed but gender is
// not validated here.
func Parse(r io.Reader) ([]models.RosterRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []models.RosterRow
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		if len(rec) < 2 {
			return nil, &LineError{Line: line, Msg: "expected name,gender"}
		}
		rows = append(rows, models.RosterRow{
			Name:   strings.TrimSpace(rec[0]),
			Gender: strings.TrimSpace(rec[1]),
			Line:   line,
		})
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return rows, nil
}

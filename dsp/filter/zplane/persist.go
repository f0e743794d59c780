package zplane

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one persisted point.
type Record struct {
	Kind Kind
	Real float64
	Imag float64
}

// csvHeader is written first and skipped on import.
var csvHeader = []string{"Type", "Real", "Imaginary"}

// ExportRecords flattens s into records, zeros first.
func ExportRecords(s State) []Record {
	out := make([]Record, 0, len(s.Zeros)+len(s.Poles))
	for _, z := range s.Zeros {
		out = append(out, Record{Kind: KindZero, Real: real(z), Imag: imag(z)})
	}

	for _, p := range s.Poles {
		out = append(out, Record{Kind: KindPole, Real: real(p), Imag: imag(p)})
	}

	return out
}

// StateFromRecords rebuilds a state from records in order.
func StateFromRecords(recs []Record) State {
	var s State
	for _, r := range recs {
		c := complex(r.Real, r.Imag)
		if r.Kind == KindPole {
			s.Poles = append(s.Poles, c)
		} else {
			s.Zeros = append(s.Zeros, c)
		}
	}

	return s
}

// ImportRecords parses raw rows. The first row is the header and is
// skipped. Any malformed row fails the whole import with ErrMalformedRecord.
func ImportRecords(rows [][]string) (State, error) {
	if len(rows) == 0 {
		return State{}, fmt.Errorf("%w: missing header row", ErrMalformedRecord)
	}

	recs := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return State{}, fmt.Errorf("row %d: %w", i+2, err)
		}

		recs = append(recs, rec)
	}

	return StateFromRecords(recs), nil
}

func parseRow(row []string) (Record, error) {
	if len(row) != len(csvHeader) {
		return Record{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, len(csvHeader), len(row))
	}

	kind, err := ParseKind(strings.TrimSpace(row[0]))
	if err != nil {
		return Record{}, err
	}

	re, err := parseCoord(row[1])
	if err != nil {
		return Record{}, err
	}

	im, err := parseCoord(row[2])
	if err != nil {
		return Record{}, err
	}

	return Record{Kind: kind, Real: re, Imag: im}, nil
}

func parseCoord(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedRecord, field)
	}

	if !validPoint(complex(v, 0)) {
		return 0, fmt.Errorf("%w: non-finite coordinate %q", ErrMalformedRecord, field)
	}

	return v, nil
}

// WriteCSV writes a header row followed by one row per point.
func WriteCSV(w io.Writer, s State) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("zplane: write header: %w", err)
	}

	for _, r := range ExportRecords(s) {
		row := []string{
			r.Kind.String(),
			strconv.FormatFloat(r.Real, 'g', -1, 64),
			strconv.FormatFloat(r.Imag, 'g', -1, 64),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("zplane: write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("zplane: flush: %w", err)
	}

	return nil
}

// ReadCSV parses a CSV stream written by WriteCSV.
func ReadCSV(r io.Reader) (State, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return State{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}

		return State{}, fmt.Errorf("zplane: read: %w", err)
	}

	return ImportRecords(rows)
}

// Package shift loads and validates the named time-of-day intervals that make
// up a Gantt chart.
package shift

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"shiftgantt/internal/timemodel"
)

// Shift is one named interval on the 24-hour clock. Records are created once
// from the input file and never modified.
type Shift struct {
	Name       string            `json:"name"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Milestones []json.RawMessage `json:"milestones,omitempty"`
	Legend     string            `json:"legend,omitempty"`
}

// Hours returns the parsed start and end times.
func (s Shift) Hours() (start, end float64, err error) {
	start, err = timemodel.ParseTime(s.Start)
	if err != nil {
		return 0, 0, &FieldError{Name: s.Name, Field: "start", Err: err}
	}
	end, err = timemodel.ParseTime(s.End)
	if err != nil {
		return 0, 0, &FieldError{Name: s.Name, Field: "end", Err: err}
	}
	return start, end, nil
}

// LoadError reports a data file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load shifts: %v", e.Err)
	}
	return fmt.Sprintf("load shifts from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DataError reports a shift list that is structurally inconsistent.
// Index is -1 when the problem concerns the list as a whole.
type DataError struct {
	Index  int
	Name   string
	Reason string
}

func (e *DataError) Error() string {
	if e.Index < 0 {
		return "invalid shift data: " + e.Reason
	}
	return fmt.Sprintf("invalid shift data: shifts[%d] (%q): %s", e.Index, e.Name, e.Reason)
}

// FieldError wraps a time format problem with the shift and field it came from.
type FieldError struct {
	Index int
	Name  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("shifts[%d] (%q): %s: %v", e.Index, e.Name, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ErrMissingShifts is wrapped by LoadError when the top-level "shifts" key is absent.
var ErrMissingShifts = errors.New(`missing required key "shifts"`)

// rawShift distinguishes absent keys from empty strings.
type rawShift struct {
	Name       *string           `json:"name"`
	Start      *string           `json:"start"`
	End        *string           `json:"end"`
	Milestones []json.RawMessage `json:"milestones"`
	Legend     *string           `json:"legend"`
}

type rawFile struct {
	Shifts *[]rawShift `json:"shifts"`
}

// LoadFile reads a shift list from a JSON file.
func LoadFile(path string) ([]Shift, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	shifts, err := Decode(bytes.NewReader(data))
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return shifts, nil
}

// Decode reads a shift list from JSON of the form {"shifts": [...]}.
// Order is preserved; it becomes the top-to-bottom order of the chart.
func Decode(r io.Reader) ([]Shift, error) {
	var f rawFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("malformed JSON: %w", err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &LoadError{Err: errors.New("malformed JSON: unexpected data after top-level object")}
	}
	if f.Shifts == nil {
		return nil, &LoadError{Err: ErrMissingShifts}
	}

	shifts := make([]Shift, 0, len(*f.Shifts))
	for i, rs := range *f.Shifts {
		for _, req := range []struct {
			key string
			val *string
		}{{"name", rs.Name}, {"start", rs.Start}, {"end", rs.End}} {
			if req.val == nil {
				return nil, &LoadError{Err: fmt.Errorf("shifts[%d]: missing required key %q", i, req.key)}
			}
		}

		s := Shift{
			Name:       *rs.Name,
			Start:      *rs.Start,
			End:        *rs.End,
			Milestones: rs.Milestones,
		}
		if rs.Legend != nil {
			s.Legend = *rs.Legend
		}
		shifts = append(shifts, s)
	}
	return shifts, nil
}

// Validate checks the whole list before anything is drawn: it must be
// non-empty, names must be non-empty and unique, and every time must parse.
func Validate(shifts []Shift) error {
	if len(shifts) == 0 {
		return &DataError{Index: -1, Reason: "no shifts"}
	}

	seen := make(map[string]int, len(shifts))
	for i, s := range shifts {
		if s.Name == "" {
			return &DataError{Index: i, Reason: "empty name"}
		}
		if first, dup := seen[s.Name]; dup {
			return &DataError{Index: i, Name: s.Name, Reason: fmt.Sprintf("duplicate name (first at shifts[%d])", first)}
		}
		seen[s.Name] = i

		if _, _, err := s.Hours(); err != nil {
			var fe *FieldError
			if errors.As(err, &fe) {
				fe.Index = i
			}
			return err
		}
	}
	return nil
}

// Starts returns the start strings in list order.
func Starts(shifts []Shift) []string {
	out := make([]string, len(shifts))
	for i, s := range shifts {
		out[i] = s.Start
	}
	return out
}

// Ends returns the end strings in list order.
func Ends(shifts []Shift) []string {
	out := make([]string, len(shifts))
	for i, s := range shifts {
		out[i] = s.End
	}
	return out
}

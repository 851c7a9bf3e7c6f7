package reportscore

import (
	"errors"
	"math"
)

// Domain errors
var (
	ErrEmptyStudentID = errors.New("report score must reference a student")
	ErrOutOfRange     = errors.New("nilai rapor harus di antara 0 dan 100")
)

// ReportScore holds a student's six academic subject scores.
type ReportScore struct {
	ID              string
	StudentID       string
	Matematika      float64
	BahasaIndonesia float64
	BahasaInggris   float64
	IPA             float64
	IPS             float64
	Informatika     float64
}

// Subject is a named score for display.
type Subject struct {
	Name  string
	Value float64
}

// Subjects returns the six scores in display order.
func (r *ReportScore) Subjects() []Subject {
	return []Subject{
		{"Matematika", r.Matematika},
		{"Bahasa Indonesia", r.BahasaIndonesia},
		{"Bahasa Inggris", r.BahasaInggris},
		{"IPA", r.IPA},
		{"IPS", r.IPS},
		{"Informatika", r.Informatika},
	}
}

// Average returns the mean of the six scores rounded to two decimals.
func (r *ReportScore) Average() float64 {
	var sum float64
	subjects := r.Subjects()
	for _, s := range subjects {
		sum += s.Value
	}
	return math.Round(100*sum/float64(len(subjects))) / 100
}

// Validate checks if the ReportScore has valid data.
func (r *ReportScore) Validate() error {
	if r.StudentID == "" {
		return ErrEmptyStudentID
	}
	for _, s := range r.Subjects() {
		if s.Value < 0 || s.Value > 100 {
			return ErrOutOfRange
		}
	}
	return nil
}

package recommendation

import (
	"errors"
	"math"
)

// Package labels. The recommendation flow only ever produces these three.
const (
	Paket1 = "Paket 1"
	Paket2 = "Paket 2"
	Paket3 = "Paket 3"
)

// Placeholder is shown when a student has no recommendation yet.
const Placeholder = "-"

// Labels is the closed label set in display order.
var Labels = []string{Paket1, Paket2, Paket3}

// Domain errors
var (
	ErrEmptyStudentID = errors.New("recommendation must reference a student")
	ErrUnknownLabel   = errors.New("paket must be one of: Paket 1, Paket 2, Paket 3")
)

// Recommendation is the predicted study-track package for one student.
type Recommendation struct {
	ID            string
	StudentID     string
	PaketPrediksi string
}

// Validate checks if the Recommendation has valid data.
func (r *Recommendation) Validate() error {
	if r.StudentID == "" {
		return ErrEmptyStudentID
	}
	if !IsKnownLabel(r.PaketPrediksi) {
		return ErrUnknownLabel
	}
	return nil
}

// IsKnownLabel reports whether label belongs to the closed set.
func IsKnownLabel(label string) bool {
	for _, l := range Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Distribution counts recommendations per label, in Labels order.
type Distribution [3]int

// Add counts one recommendation. Labels outside the closed set are dropped.
// POST: returns true if the label was counted
func (d *Distribution) Add(label string, n int) bool {
	for i, l := range Labels {
		if l == label {
			d[i] += n
			return true
		}
	}
	return false
}

// Sum returns the number of counted recommendations.
func (d Distribution) Sum() int {
	return d[0] + d[1] + d[2]
}

// Percentages returns each bucket as a share of total, rounded to one decimal.
// A zero total yields all zeros.
func (d Distribution) Percentages(total int) [3]float64 {
	var out [3]float64
	if total <= 0 {
		return out
	}
	for i, n := range d {
		out[i] = math.Round(1000*float64(n)/float64(total)) / 10
	}
	return out
}

package riasec

import (
	"errors"
	"sort"
	"strings"
)

// Dimension codes in canonical order.
const Codes = "RIASEC"

// Domain errors
var (
	ErrEmptyStudentID = errors.New("result must reference a student")
	ErrNegativeScore  = errors.New("scores cannot be negative")
	ErrInvalidTop3    = errors.New("top3 must be three distinct RIASEC letters")
)

// Result is one student's RIASEC test outcome.
type Result struct {
	ID        string
	StudentID string
	R         int
	I         int
	A         int
	S         int
	E         int
	C         int
	Top3      string
}

// Score pairs a dimension code with its score.
type Score struct {
	Code  string
	Name  string
	Value int
}

// Scores returns the six sub-scores in canonical RIASEC order.
func (r *Result) Scores() []Score {
	values := []int{r.R, r.I, r.A, r.S, r.E, r.C}
	out := make([]Score, len(values))
	for i, v := range values {
		code := string(Codes[i])
		out[i] = Score{Code: code, Name: Names[code], Value: v}
	}
	return out
}

// Validate checks if the Result has valid data.
// PRE: Result struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Result) Validate() error {
	if r.StudentID == "" {
		return ErrEmptyStudentID
	}
	for _, s := range r.Scores() {
		if s.Value < 0 {
			return ErrNegativeScore
		}
	}
	if r.Top3 != "" && !ValidTop3(r.Top3) {
		return ErrInvalidTop3
	}
	return nil
}

// ComputeTop3 derives the top-3 code from the sub-scores. Ties keep RIASEC order.
func (r *Result) ComputeTop3() string {
	scores := r.Scores()
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})
	return scores[0].Code + scores[1].Code + scores[2].Code
}

// ValidTop3 reports whether code is three distinct RIASEC letters.
func ValidTop3(code string) bool {
	if len(code) != 3 {
		return false
	}
	seen := map[rune]bool{}
	for _, c := range strings.ToUpper(code) {
		if !strings.ContainsRune(Codes, c) || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// Names maps each code to its dimension name.
var Names = map[string]string{
	"R": "Realistic",
	"I": "Investigative",
	"A": "Artistic",
	"S": "Social",
	"E": "Enterprising",
	"C": "Conventional",
}

// Descriptions holds markdown blurbs for each dimension, shown to students and teachers.
var Descriptions = map[string]string{
	"R": "**Realistic**: senang bekerja dengan alat, mesin, dan kegiatan fisik. " +
		"Cocok dengan bidang *teknik*, *pertanian*, dan *olahraga*.",
	"I": "**Investigative**: senang mengamati, meneliti, dan memecahkan masalah. " +
		"Cocok dengan bidang *sains*, *kedokteran*, dan *matematika*.",
	"A": "**Artistic**: ekspresif, kreatif, dan menyukai kebebasan berkarya. " +
		"Cocok dengan bidang *seni*, *desain*, dan *sastra*.",
	"S": "**Social**: senang membantu, mengajar, dan bekerja dengan orang lain. " +
		"Cocok dengan bidang *pendidikan*, *kesehatan*, dan *layanan sosial*.",
	"E": "**Enterprising**: suka memimpin, membujuk, dan mengambil risiko. " +
		"Cocok dengan bidang *bisnis*, *hukum*, dan *manajemen*.",
	"C": "**Conventional**: teliti, teratur, dan nyaman dengan data. " +
		"Cocok dengan bidang *akuntansi*, *administrasi*, dan *perbankan*.",
}

// DescriptionsFor returns the markdown descriptions for each letter of a top-3 code.
func DescriptionsFor(top3 string) []string {
	var out []string
	for _, c := range strings.ToUpper(top3) {
		if d, ok := Descriptions[string(c)]; ok {
			out = append(out, d)
		}
	}
	return out
}

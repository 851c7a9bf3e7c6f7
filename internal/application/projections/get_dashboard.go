package projections

import (
	"context"

	"peminatan/internal/adapters/storage/roster"
	"peminatan/internal/application/listutil"
	"peminatan/internal/domain/export"
	"peminatan/internal/domain/recommendation"
)

// Dashboard filter parameter names.
const (
	FilterNama   = "nama"
	FilterKelas  = "kelas"
	FilterRiasec = "riasec"
	FilterPaket  = "paket"
)

// DashboardFilterKeys lists the dashboard filters in form order.
var DashboardFilterKeys = []string{FilterNama, FilterKelas, FilterRiasec, FilterPaket}

// GetDashboardQuery carries query parameters.
type GetDashboardQuery struct {
	Filters         listutil.FilterParams
	Page            int
	IncludeTeachers bool // admin view only
}

// StudentRow is one dashboard table row, placeholders already applied.
type StudentRow struct {
	UserID    string
	Nama      string
	NISN      string
	Kelas     string
	StatusTes string
	Tested    bool
	Top3      string
	Paket     string
}

// Summary is the widget block above the table.
type Summary struct {
	TotalStudents        int
	TotalTeachers        int
	ShowTeachers         bool
	Tested               int
	Untested             int
	Labels               []string
	Distribution         [3]int
	Percentages          [3]float64
	TotalRecommendations int
}

// GetDashboardResult carries the query result.
type GetDashboardResult struct {
	Summary Summary
	Rows    []StudentRow
	Page    listutil.PageInfo
}

// GetDashboardDeps holds dependencies for GetDashboard.
type GetDashboardDeps struct {
	RosterStore RosterStore
}

// QueryGetDashboard builds the admin or guru dashboard.
// PRE: query.Page >= 1
// POST: Rows holds at most listutil.PageSize students matching every filter;
//
//	Summary always covers the whole siswa population.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	summary, err := QueryGetSummary(ctx, query.IncludeTeachers, deps)
	if err != nil {
		return GetDashboardResult{}, err
	}

	filter := roster.Filter{
		Nama:   query.Filters.Get(FilterNama),
		Kelas:  query.Filters.Get(FilterKelas),
		Riasec: query.Filters.Get(FilterRiasec),
		Paket:  query.Filters.Get(FilterPaket),
	}
	total, err := deps.RosterStore.Count(ctx, filter)
	if err != nil {
		return GetDashboardResult{}, err
	}
	page := listutil.NewPageInfo(query.Page, listutil.PageSize, total)

	var rows []roster.Row
	if !page.PastEnd() {
		rows, err = deps.RosterStore.List(ctx, filter, page.PerPage, page.Offset())
		if err != nil {
			return GetDashboardResult{}, err
		}
	}

	result := GetDashboardResult{Summary: summary, Page: page, Rows: make([]StudentRow, 0, len(rows))}
	for _, r := range rows {
		result.Rows = append(result.Rows, toStudentRow(r))
	}
	return result, nil
}

// QueryGetSummary aggregates the whole siswa population, ignoring any filter.
// POST: Tested + Untested == TotalStudents
func QueryGetSummary(ctx context.Context, includeTeachers bool, deps GetDashboardDeps) (Summary, error) {
	s, err := deps.RosterStore.Summary(ctx)
	if err != nil {
		return Summary{}, err
	}
	dist := recommendation.Distribution(s.Distribution)
	out := Summary{
		TotalStudents:        s.TotalStudents,
		Tested:               s.Tested,
		Untested:             s.Untested,
		Labels:               recommendation.Labels,
		Distribution:         s.Distribution,
		Percentages:          dist.Percentages(s.TotalRecommendations),
		TotalRecommendations: s.TotalRecommendations,
	}
	if includeTeachers {
		out.ShowTeachers = true
		out.TotalTeachers = s.TotalTeachers
	}
	return out, nil
}

func toStudentRow(r roster.Row) StudentRow {
	row := StudentRow{
		UserID:    r.UserID,
		Nama:      r.Nama,
		NISN:      r.NISN,
		Kelas:     r.Kelas,
		Tested:    r.Tested,
		StatusTes: export.StatusFor(r.Tested),
		Top3:      r.Top3,
		Paket:     r.Paket,
	}
	if row.Top3 == "" {
		row.Top3 = recommendation.Placeholder
	}
	if row.Paket == "" {
		row.Paket = recommendation.Placeholder
	}
	return row
}

package projections

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"

	"peminatan/internal/adapters/storage/roster"
	"peminatan/internal/application/listutil"
	"peminatan/internal/domain/export"
	"peminatan/internal/domain/recommendation"
)

type mockRosterStore struct {
	rows       []roster.Row
	summary    roster.Summary
	lastFilter roster.Filter
	lastLimit  int
	lastOffset int
	listCalls  int
	err        error
}

// List returns the slice of seeded rows selected by limit and offset.
func (m *mockRosterStore) List(_ context.Context, f roster.Filter, limit, offset int) ([]roster.Row, error) {
	m.lastFilter, m.lastLimit, m.lastOffset = f, limit, offset
	m.listCalls++
	if offset >= len(m.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[offset:end], nil
}

// Count returns the number of seeded rows.
func (m *mockRosterStore) Count(_ context.Context, _ roster.Filter) (int, error) {
	return len(m.rows), nil
}

// Summary returns the seeded summary.
func (m *mockRosterStore) Summary(_ context.Context) (roster.Summary, error) {
	return m.summary, m.err
}

// ExportRows returns the seeded rows.
func (m *mockRosterStore) ExportRows(_ context.Context) ([]roster.Row, error) {
	return m.rows, m.err
}

func fifteenRows() []roster.Row {
	rows := make([]roster.Row, 15)
	for i := range rows {
		rows[i] = roster.Row{UserID: string(rune('a' + i)), Nama: "Siswa"}
	}
	rows[0].Tested, rows[0].Top3, rows[0].Paket = true, "RIA", recommendation.Paket1
	return rows
}

// TestQueryGetDashboard_Pagination returns a short last page and an empty page past the end.
func TestQueryGetDashboard_Pagination(t *testing.T) {
	store := &mockRosterStore{rows: fifteenRows()}
	deps := GetDashboardDeps{RosterStore: store}
	ctx := context.Background()

	page2, err := QueryGetDashboard(ctx, GetDashboardQuery{Page: 2}, deps)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Rows) != 5 || page2.Page.Total != 15 || store.lastOffset != 10 || store.lastLimit != listutil.PageSize {
		t.Errorf("page 2: rows=%d total=%d offset=%d limit=%d", len(page2.Rows), page2.Page.Total, store.lastOffset, store.lastLimit)
	}

	page99, err := QueryGetDashboard(ctx, GetDashboardQuery{Page: 99}, deps)
	if err != nil {
		t.Fatalf("page 99: %v", err)
	}
	if len(page99.Rows) != 0 || page99.Page.Page != 99 {
		t.Errorf("page 99: rows=%d page=%d", len(page99.Rows), page99.Page.Page)
	}

	store.listCalls = 0
	huge, err := QueryGetDashboard(ctx, GetDashboardQuery{Page: math.MaxInt}, deps)
	if err != nil {
		t.Fatalf("page MaxInt: %v", err)
	}
	if len(huge.Rows) != 0 || store.listCalls != 0 {
		t.Errorf("page MaxInt: rows=%d list calls=%d", len(huge.Rows), store.listCalls)
	}
}

// TestQueryGetDashboard_Placeholders fills untested rows with "-" and Belum Tes.
func TestQueryGetDashboard_Placeholders(t *testing.T) {
	res, err := QueryGetDashboard(context.Background(), GetDashboardQuery{Page: 1}, GetDashboardDeps{RosterStore: &mockRosterStore{rows: fifteenRows()}})
	if err != nil {
		t.Fatal(err)
	}
	tested, untested := res.Rows[0], res.Rows[1]
	if tested.StatusTes != export.StatusTested || tested.Top3 != "RIA" || tested.Paket != recommendation.Paket1 {
		t.Errorf("tested row = %+v", tested)
	}
	if untested.StatusTes != export.StatusUntested || untested.Top3 != "-" || untested.Paket != "-" {
		t.Errorf("untested row = %+v", untested)
	}
}

// TestQueryGetDashboard_FiltersPassedThrough maps query parameters onto the store filter.
func TestQueryGetDashboard_FiltersPassedThrough(t *testing.T) {
	store := &mockRosterStore{}
	q := url.Values{"nama": {"ani"}, "kelas": {"X-1"}, "riasec": {"RI"}, "paket": {"Paket 2"}}
	_, err := QueryGetDashboard(context.Background(), GetDashboardQuery{
		Filters: listutil.ParseFilterParams(q, DashboardFilterKeys),
		Page:    1,
	}, GetDashboardDeps{RosterStore: store})
	if err != nil {
		t.Fatal(err)
	}
	want := roster.Filter{Nama: "ani", Kelas: "X-1", Riasec: "RI", Paket: "Paket 2"}
	if store.lastFilter != want {
		t.Errorf("filter = %+v, want %+v", store.lastFilter, want)
	}
}

// TestQueryGetSummary computes percentages and hides the teacher count for gurus.
func TestQueryGetSummary(t *testing.T) {
	store := &mockRosterStore{summary: roster.Summary{
		TotalStudents: 10, TotalTeachers: 3, Tested: 6, Untested: 4,
		Distribution: [3]int{3, 2, 0}, TotalRecommendations: 6,
	}}
	deps := GetDashboardDeps{RosterStore: store}

	admin, err := QueryGetSummary(context.Background(), true, deps)
	if err != nil {
		t.Fatal(err)
	}
	if !admin.ShowTeachers || admin.TotalTeachers != 3 {
		t.Errorf("admin summary = %+v", admin)
	}
	if admin.Percentages != [3]float64{50, 33.3, 0} {
		t.Errorf("percentages = %v", admin.Percentages)
	}

	guru, err := QueryGetSummary(context.Background(), false, deps)
	if err != nil {
		t.Fatal(err)
	}
	if guru.ShowTeachers || guru.TotalTeachers != 0 {
		t.Errorf("guru summary shows teachers: %+v", guru)
	}
	if guru.Tested+guru.Untested != guru.TotalStudents {
		t.Error("tested + untested != total")
	}
}

// TestQueryGetDashboard_StoreError is returned as is.
func TestQueryGetDashboard_StoreError(t *testing.T) {
	boom := errors.New("boom")
	_, err := QueryGetDashboard(context.Background(), GetDashboardQuery{Page: 1}, GetDashboardDeps{RosterStore: &mockRosterStore{err: boom}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

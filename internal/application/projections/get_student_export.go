package projections

import (
	"context"

	"peminatan/internal/domain/export"
	"peminatan/internal/domain/recommendation"
)

// GetStudentExportDeps holds dependencies for GetStudentExport.
type GetStudentExportDeps struct {
	RosterStore RosterStore
}

// QueryGetStudentExport returns one export row per student profile.
// POST: Paket is "-" when there is no recommendation; StatusTes reflects the RIASEC result
func QueryGetStudentExport(ctx context.Context, deps GetStudentExportDeps) ([]export.StudentRow, error) {
	rows, err := deps.RosterStore.ExportRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]export.StudentRow, 0, len(rows))
	for _, r := range rows {
		paket := r.Paket
		if paket == "" {
			paket = recommendation.Placeholder
		}
		out = append(out, export.StudentRow{
			Nama:      r.Nama,
			NISN:      r.NISN,
			StatusTes: export.StatusFor(r.Tested),
			Paket:     paket,
		})
	}
	return out, nil
}

package projections

import (
	"context"

	accountstore "peminatan/internal/adapters/storage/account"
	"peminatan/internal/application/listutil"
	"peminatan/internal/domain/account"
)

// GetTeacherListQuery carries query parameters.
type GetTeacherListQuery struct {
	Nama string
	Page int
}

// TeacherRow is one row of the teacher table.
type TeacherRow struct {
	ID       string
	Nama     string
	Username string
	NIP      string
	Kelas    string
}

// GetTeacherListResult carries the query result.
type GetTeacherListResult struct {
	Teachers []TeacherRow
	Page     listutil.PageInfo
}

// GetTeacherListDeps holds dependencies for GetTeacherList.
type GetTeacherListDeps struct {
	AccountStore AccountStore
}

// QueryGetTeacherList pages through guru accounts filtered by name.
// PRE: query.Page >= 1
// POST: Returns at most listutil.PageSize teachers ordered by name
func QueryGetTeacherList(ctx context.Context, query GetTeacherListQuery, deps GetTeacherListDeps) (GetTeacherListResult, error) {
	filter := accountstore.ListFilter{Role: account.RoleGuru, Name: query.Nama}
	total, err := deps.AccountStore.Count(ctx, filter)
	if err != nil {
		return GetTeacherListResult{}, err
	}
	page := listutil.NewPageInfo(query.Page, listutil.PageSize, total)

	var users []account.User
	if !page.PastEnd() {
		filter.Limit = page.PerPage
		filter.Offset = page.Offset()
		users, err = deps.AccountStore.List(ctx, filter)
		if err != nil {
			return GetTeacherListResult{}, err
		}
	}

	result := GetTeacherListResult{Page: page, Teachers: make([]TeacherRow, 0, len(users))}
	for _, u := range users {
		result.Teachers = append(result.Teachers, TeacherRow{
			ID:       u.ID,
			Nama:     u.DisplayName(),
			Username: u.Username,
			NIP:      u.NISN,
			Kelas:    u.Kelas,
		})
	}
	return result, nil
}

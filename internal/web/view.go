package web

import (
	"net/url"
	"strconv"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/pkg/response"
)

// ── paging ──

// Pager links for a paginated list, keeping the current filters in the query
type Pager struct {
	response.Pagination
	path  string
	query url.Values
}

// NewPager builds a Pager for path; query carries the active filters
func NewPager(path string, query url.Values, total int64, page int) Pager {
	q := url.Values{}
	for k, v := range query {
		if k != "page" {
			q[k] = v
		}
	}
	return Pager{
		Pagination: response.NewPagination(total, page, dto.PageSize),
		path:       path,
		query:      q,
	}
}

// URL link to page n
func (p Pager) URL(n int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.path + "?" + q.Encode()
}

func (p Pager) HasPrev() bool { return p.Page > 1 }
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }
func (p Pager) Prev() int     { return p.Page - 1 }
func (p Pager) Next() int     { return p.Page + 1 }

// ── generic catalog pages ──

// FormField one input of a catalog form
type FormField struct {
	Name     string
	Label    string
	Type     string // text, textarea or select
	Value    string
	Options  []dto.Option
	Required bool
}

// CatalogRow one listed record
type CatalogRow struct {
	ID    string
	Cells []string
}

// CatalogPage list-with-create-form page shared by the reference catalogs
type CatalogPage struct {
	Title    string
	Singular string
	BasePath string
	Columns  []string
	Rows     []CatalogRow
	Fields   []FormField
	Pager    Pager
}

// CatalogEdit edit form of one catalog record
type CatalogEdit struct {
	Title    string
	BasePath string
	ID       string
	Fields   []FormField
}

// WithOld overlays previously submitted input onto field values
func WithOld(fields []FormField, f *Flash) []FormField {
	out := make([]FormField, len(fields))
	for i, fld := range fields {
		fld.Value = f.OldValue(fld.Name, fld.Value)
		out[i] = fld
	}
	return out
}

// EmployeeValues form values of e; an empty map for a blank form
func EmployeeValues(e *model.Employee) map[string]string {
	if e == nil {
		return map[string]string{}
	}
	return map[string]string{
		"first_name":           e.FirstName,
		"middle_name":          e.MiddleName,
		"last_name":            e.LastName,
		"phone":                e.Phone,
		"address":              e.Address,
		"birthdate":            isoOptionalDate(e.Birthdate),
		"gender":               e.Gender,
		"date_hired":           isoOptionalDate(e.DateHired),
		"position_id":          e.PositionID,
		"div_sec_unit_id":      e.DivSecUnitID,
		"employment_status_id": e.EmploymentStatusID,
		"salary":               e.Salary.StringFixed(2),
	}
}

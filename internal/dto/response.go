package dto

// PageSize fixed page size of every list
const PageSize = 10

// PaginationRequest page query parameter
type PaginationRequest struct {
	Page int `form:"page"`
}

// GetPage page number, defaulting to 1
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize fixed page size
func (p *PaginationRequest) GetPageSize() int {
	return PageSize
}

// GetOffset row offset for the page
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// Option id/label pair for select inputs and JSON form data
type Option struct {
	ID    string `json:"id"`
	Label string `json:"name"`
}

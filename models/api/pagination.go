package apimodels

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Pagination struct {
	Limit int `json:"limit" query:"limit"`
	// Page starts at 1.
	Page int `json:"page" query:"page"`
}

// Window converts the page request to SQL limit and offset. Out of range values fall back to defaults.
func (r Pagination) Window() (limit, offset int) {
	limit = r.Limit
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	page := r.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

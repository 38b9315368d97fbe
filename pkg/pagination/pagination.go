package pagination

const (
	// DefaultLimit is the page size used when a request does not provide one.
	DefaultLimit = 10
	// MaxLimit caps how many rows any page request can ask for.
	MaxLimit = 100
)

// Params holds 1-based page inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize applies the page floor and the limit bounds.
func (p Params) Normalize() Params {
	return Params{Page: NormalizePage(p.Page), Limit: NormalizeLimit(p.Limit)}
}

// Meta describes a page of a larger collection in API responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	From       int `json:"from"`
	To         int `json:"to"`
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage floors page numbers at 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset returns the zero-based index of the first row of page.
func Offset(page, limit int) int {
	return (NormalizePage(page) - 1) * limit
}

// TotalPages returns ceil(total/limit), never less than zero.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Bounds returns the half-open [start, end) slice window of page within a
// sequence of length n. Pages past the end yield start == end == n.
func Bounds(page, limit, n int) (int, int) {
	if limit <= 0 {
		return 0, 0
	}
	start := Offset(page, limit)
	if start > n {
		start = n
	}
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}

// NewMeta builds the response metadata, including the 1-based "showing
// from..to" range.
func NewMeta(page, limit, total int) Meta {
	page = NormalizePage(page)
	from, to := Bounds(page, limit, total)
	m := Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
		To:         to,
	}
	if to > from {
		m.From = from + 1
	}
	return m
}

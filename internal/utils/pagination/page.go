package pagination

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Page is a clamped limit/offset window for the discovery feed.
type Page struct {
	Limit  int
	Offset int
}

// ClampPage normalizes arbitrary caller-supplied pagination into a valid
// window. Out-of-range values are clamped, not rejected, so the same inputs
// always yield the same page: limit into [1, MaxLimit] (0 → default),
// negative offsets to 0.
func ClampPage(limit, offset int) Page {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// Slice applies the window to a ranked in-memory result set.
func Slice[T any](items []T, p Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

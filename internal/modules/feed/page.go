package feed

// Page is one slice of the feed. NextCursor is set only when HasMore is.
type Page struct {
	Items      []Row
	NextCursor *string
	HasMore    bool
	Count      int
	Limit      int
}

// NewPage trims an over-fetched result (up to limit+1 rows) to limit.
func NewPage(rows []Row, limit int) Page {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = []Row{}
	}
	p := Page{Items: rows, HasMore: hasMore, Count: len(rows), Limit: limit}
	if hasMore && len(rows) > 0 {
		next := rows[len(rows)-1].Key().Encode()
		p.NextCursor = &next
	}
	return p
}

// ResolveLimit picks the page size: the explicit request, else the user's
// feed size, else the default; the result is clamped to [1, max].
func ResolveLimit(requested *int, feedSize, def, max int) int {
	n := def
	switch {
	case requested != nil:
		n = *requested
	case feedSize > 0:
		n = feedSize
	}
	if max < 1 {
		max = 1
	}
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	return n
}

package votes

// Paginate slices items by offset and limit, returning the requested page and
// the offset of the next page, or nil when the page reaches the end of the
// list. An offset outside [0, len(items)) yields an empty page and no next
// offset rather than an error, keeping the function total; bounding the limit
// (1..250) is the boundary validator's job.
func Paginate[T any](items []T, offset, limit int) ([]T, *int) {
	if offset < 0 || offset >= len(items) {
		return []T{}, nil
	}

	end := offset + limit
	if end > len(items) {
		end = len(items)
	}

	page := items[offset:end]
	if end < len(items) {
		next := end
		return page, &next
	}
	return page, nil
}

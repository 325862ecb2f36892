package domain

// PageMeta is the pagination metadata of one fetched page.
type PageMeta struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// Page is one fetched batch of listing items. Immutable once received.
type Page struct {
	Items []Property `json:"data"`
	Meta  PageMeta   `json:"meta"`
}

// Paginate slices items into the requested 1-based page.
func Paginate(items []Property, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	out := make([]Property, end-start)
	copy(out, items[start:end])
	return Page{
		Items: out,
		Meta:  PageMeta{Page: page, TotalPages: totalPages, Total: total},
	}
}

package domain

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/propdesk/propdesk/internal/codec"
)

// DefaultPageSize is the number of items requested per page.
const DefaultPageSize = 10

// QueryKey identifies the (search, filter, sort, page size) tuple of a
// query. Accumulated pages are only valid for the key they were fetched
// under.
type QueryKey string

// Query is an immutable listing query. Build a new value whenever a
// field changes; the page number is passed separately at fetch time.
type Query struct {
	Search   string
	Filter   Filter
	Sort     SortOptions
	PageSize int
}

// NewQuery returns a query with defaults applied.
func NewQuery(search string, filter Filter, sort SortOptions) Query {
	return Query{Search: search, Filter: filter, Sort: sort}.Normalize()
}

// Normalize trims the search text, canonicalises slice filters and fills
// in default sort and page size.
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	q.Filter = q.Filter.Normalize()
	q.Sort = normalizeSortOptions(q.Sort)
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// WithSearch returns a copy with the search text replaced.
func (q Query) WithSearch(search string) Query {
	q.Search = search
	return q.Normalize()
}

// WithFilter returns a copy with the filter replaced.
func (q Query) WithFilter(f Filter) Query {
	q.Filter = f
	return q.Normalize()
}

// WithSort returns a copy with the sort options replaced.
func (q Query) WithSort(s SortOptions) Query {
	q.Sort = s
	return q.Normalize()
}

// keyFields is the canonical form hashed by Key. Nil pointers are
// encoded as CBOR null, so an absent bound differs from zero.
type keyFields struct {
	Search        string   `cbor:"search"`
	Category      string   `cbor:"category"`
	Purpose       string   `cbor:"purpose"`
	Location      string   `cbor:"location"`
	Reference     string   `cbor:"reference"`
	PermitNumber  string   `cbor:"permitNumber"`
	Status        string   `cbor:"status"`
	AgentIDs      []string `cbor:"agentIds"`
	PropertyTypes []string `cbor:"propertyTypes"`
	MinPrice      *float64 `cbor:"minPrice"`
	MaxPrice      *float64 `cbor:"maxPrice"`
	MinArea       *float64 `cbor:"minArea"`
	MaxArea       *float64 `cbor:"maxArea"`
	SortBy        string   `cbor:"sortBy"`
	SortOrder     string   `cbor:"sortOrder"`
	PageSize      int      `cbor:"limit"`
}

// Key returns the fingerprint of every field except the page number.
func (q Query) Key() QueryKey {
	n := q.Normalize()
	f := n.Filter
	fp, err := codec.Fingerprint(keyFields{
		Search:        n.Search,
		Category:      string(f.Category),
		Purpose:       string(f.Purpose),
		Location:      f.Location,
		Reference:     f.Reference,
		PermitNumber:  f.PermitNumber,
		Status:        f.Status,
		AgentIDs:      f.AgentIDs,
		PropertyTypes: f.PropertyTypes,
		MinPrice:      f.MinPrice,
		MaxPrice:      f.MaxPrice,
		MinArea:       f.MinArea,
		MaxArea:       f.MaxArea,
		SortBy:        n.Sort.Field.String(),
		SortOrder:     n.Sort.Order.String(),
		PageSize:      n.PageSize,
	})
	if err != nil {
		// keyFields holds only strings, numbers and string slices.
		panic(err)
	}
	return QueryKey(fp)
}

// Values encodes the query for the given page as URL query parameters.
// Absent fields are omitted rather than sent empty, and slice filters
// are serialised as repeated keys.
func (q Query) Values(page int) url.Values {
	n := q.Normalize()
	f := n.Filter
	v := url.Values{}

	setString := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	setFloat := func(key string, val *float64) {
		if val != nil {
			v.Set(key, strconv.FormatFloat(*val, 'f', -1, 64))
		}
	}

	setString("search", n.Search)
	for _, id := range f.AgentIDs {
		v.Add("agentIds", id)
	}
	setString("category", string(f.Category))
	setString("purpose", string(f.Purpose))
	setString("location", f.Location)
	setString("reference", f.Reference)
	for _, t := range f.PropertyTypes {
		v.Add("propertyTypes", t)
	}
	setString("permitNumber", f.PermitNumber)
	setString("status", f.Status)
	setFloat("minPrice", f.MinPrice)
	setFloat("maxPrice", f.MaxPrice)
	setFloat("minArea", f.MinArea)
	setFloat("maxArea", f.MaxArea)
	setString("sortBy", n.Sort.Field.String())
	setString("sortOrder", n.Sort.Order.String())
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(n.PageSize))
	return v
}

// ParseQueryValues is the inverse of Values. It returns the query and the
// requested page; missing page and limit default to 1 and DefaultPageSize.
func ParseQueryValues(v url.Values) (Query, int, error) {
	opts := FilterOptions{
		Category:      v.Get("category"),
		Purpose:       v.Get("purpose"),
		Location:      v.Get("location"),
		Reference:     v.Get("reference"),
		PermitNumber:  v.Get("permitNumber"),
		Status:        v.Get("status"),
		AgentIDs:      v["agentIds"],
		PropertyTypes: v["propertyTypes"],
		MinPrice:      v.Get("minPrice"),
		MaxPrice:      v.Get("maxPrice"),
		MinArea:       v.Get("minArea"),
		MaxArea:       v.Get("maxArea"),
	}
	filter, err := opts.ToFilter()
	if err != nil {
		return Query{}, 0, err
	}
	sort, err := ParseSortOptions(v.Get("sortBy"), v.Get("sortOrder"))
	if err != nil {
		return Query{}, 0, err
	}
	page := 1
	if raw := v.Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil || page < 1 {
			page = 1
		}
	}
	q := Query{Search: v.Get("search"), Filter: filter, Sort: sort}
	if raw := v.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.PageSize = n
		}
	}
	return q.Normalize(), page, nil
}

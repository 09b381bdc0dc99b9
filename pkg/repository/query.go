package repository

import (
	"strconv"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SortOrder defines the direction of sorting. The encoding is deliberately a
// two-token enum: anything other than "asc" or "desc" is rejected rather
// than normalized, so callers cannot rely on truthiness ambiguity.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort specifies field and direction for sorting results.
type Sort struct {
	Field string
	Order SortOrder
}

// Direction returns the MongoDB sort direction value.
func (s Sort) Direction() int {
	if s.Order == SortDesc {
		return -1
	}
	return 1
}

// ParseSort builds a Sort from raw query parameters. An empty field means no
// sorting (store-defined order). An empty order defaults to ascending; any
// other unrecognized token fails with a validation error.
func ParseSort(field, order string) (*Sort, error) {
	if field == "" {
		return nil, nil
	}
	switch SortOrder(order) {
	case SortAsc, SortOrder(""):
		return &Sort{Field: field, Order: SortAsc}, nil
	case SortDesc:
		return &Sort{Field: field, Order: SortDesc}, nil
	default:
		return nil, apperr.NewValidationf("invalid sort order %q: must be %q or %q", order, SortAsc, SortDesc)
	}
}

// Pagination defaults.
const (
	DefaultPageIdx  = 0
	DefaultPageSize = 4
)

// Page specifies offset pagination as page index and page size.
type Page struct {
	Idx  int
	Size int
}

// DefaultPage returns the first page with the default size.
func DefaultPage() Page {
	return Page{Idx: DefaultPageIdx, Size: DefaultPageSize}
}

// ParsePage builds a Page from raw query parameters, applying defaults for
// absent values and rejecting non-numeric or negative input.
func ParsePage(rawIdx, rawSize string) (Page, error) {
	page := DefaultPage()

	if rawIdx != "" {
		idx, err := strconv.Atoi(rawIdx)
		if err != nil || idx < 0 {
			return Page{}, apperr.NewValidationf("invalid page index %q: must be a non-negative integer", rawIdx)
		}
		page.Idx = idx
	}
	if rawSize != "" {
		size, err := strconv.Atoi(rawSize)
		if err != nil || size < 0 {
			return Page{}, apperr.NewValidationf("invalid page size %q: must be a non-negative integer", rawSize)
		}
		page.Size = size
	}
	return page, nil
}

// Offset returns the number of documents to skip.
func (p Page) Offset() int64 {
	return int64(p.Idx) * int64(p.Size)
}

// Limit returns the maximum number of documents to return.
func (p Page) Limit() int64 {
	return int64(p.Size)
}

// QueryOptions combines criteria, ordering, and pagination for one query.
type QueryOptions struct {
	Criteria bson.M
	Sort     *Sort
	Page     Page
}

// FindOptions translates the plan into driver find options.
func (o QueryOptions) FindOptions() *options.FindOptions {
	opts := options.Find()
	if o.Sort != nil {
		opts.SetSort(bson.D{{Key: o.Sort.Field, Value: o.Sort.Direction()}})
	}
	if o.Page.Size > 0 {
		opts.SetSkip(o.Page.Offset())
		opts.SetLimit(o.Page.Limit())
	}
	return opts
}

func errInvalidID(id string) error {
	return apperr.NewValidationf("invalid id %q", id)
}

package toy

import (
	"strconv"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawFilter is the untyped parameter bag as it arrives from the transport.
// ParseFilter is the only way to turn it into a Filter; unknown shapes and
// malformed values are rejected there, never passed through to the store.
type RawFilter struct {
	Name     string
	InStock  string
	Labels   []string
	SortBy   string
	SortDir  string
	PageIdx  string
	PageSize string
}

// Filter is the validated, typed toy query filter.
type Filter struct {
	Name    string
	InStock *bool
	Labels  []string
	Sort    *repository.Sort
	Page    repository.Page
}

// ParseFilter validates and coerces a raw filter bag.
func ParseFilter(raw RawFilter) (*Filter, error) {
	f := &Filter{
		Name:   raw.Name,
		Labels: raw.Labels,
	}

	if raw.InStock != "" {
		inStock, err := strconv.ParseBool(raw.InStock)
		if err != nil {
			return nil, apperr.NewValidationf("invalid inStock value %q: must be a boolean", raw.InStock)
		}
		f.InStock = &inStock
	}

	sort, err := repository.ParseSort(raw.SortBy, raw.SortDir)
	if err != nil {
		return nil, err
	}
	f.Sort = sort

	page, err := repository.ParsePage(raw.PageIdx, raw.PageSize)
	if err != nil {
		return nil, err
	}
	f.Page = page

	return f, nil
}

// Criteria translates the filter into a store predicate. Predicates combine
// with logical AND; an empty filter yields the match-all predicate.
func (f *Filter) Criteria() bson.M {
	criteria := bson.M{}
	if f.Name != "" {
		criteria["name"] = primitive.Regex{Pattern: f.Name, Options: "i"}
	}
	if f.InStock != nil {
		criteria["inStock"] = *f.InStock
	}
	if len(f.Labels) > 0 {
		criteria["labels"] = bson.M{"$in": f.Labels}
	}
	return criteria
}

// Options assembles the full query plan for this filter.
func (f *Filter) Options() repository.QueryOptions {
	return repository.QueryOptions{
		Criteria: f.Criteria(),
		Sort:     f.Sort,
		Page:     f.Page,
	}
}

package review

import (
	"github.com/mistertoy/mistertoy-server/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawFilter carries review list parameters exactly as they arrive on the
// query string.
type RawFilter struct {
	ByUserID   string
	AboutToyID string
}

// Filter is the validated form of RawFilter.
type Filter struct {
	ByUserID   *primitive.ObjectID
	AboutToyID *primitive.ObjectID
}

// ParseFilter validates the raw parameters. A malformed id is rejected
// rather than matched against nothing.
func ParseFilter(raw RawFilter) (*Filter, error) {
	f := &Filter{}

	if raw.ByUserID != "" {
		oid, err := repository.ParseObjectID(raw.ByUserID)
		if err != nil {
			return nil, err
		}
		f.ByUserID = &oid
	}
	if raw.AboutToyID != "" {
		oid, err := repository.ParseObjectID(raw.AboutToyID)
		if err != nil {
			return nil, err
		}
		f.AboutToyID = &oid
	}
	return f, nil
}

// Criteria translates the filter into a store match document. An empty
// filter matches every review.
func (f *Filter) Criteria() bson.M {
	criteria := bson.M{}
	if f.ByUserID != nil {
		criteria["byUserId"] = *f.ByUserID
	}
	if f.AboutToyID != nil {
		criteria["aboutToyId"] = *f.AboutToyID
	}
	return criteria
}

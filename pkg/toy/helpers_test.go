package toy

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// matches evaluates a store regex predicate the way MongoDB would.
func matches(r primitive.Regex, value string) bool {
	pattern := r.Pattern
	if r.Options == "i" {
		pattern = "(?i)" + pattern
	}
	return regexp.MustCompile(pattern).MatchString(value)
}

// fakeExecutor records calls and delegates to optional stubs.
type fakeExecutor struct {
	findManyFn func(collection string, filter bson.M, opts *options.FindOptions, results interface{}) error
	findOneFn  func(collection string, filter bson.M, result interface{}) error
	insertFn   func(collection string, doc interface{}) (primitive.ObjectID, error)
	updateFn   func(collection string, filter, update bson.M) (int64, int64, error)
	deleteFn   func(collection string, filter bson.M) (int64, error)

	inserted []interface{}
	updates  []bson.M
	filters  []bson.M
}

func (f *fakeExecutor) FindMany(_ context.Context, collection string, filter bson.M, opts *options.FindOptions, results interface{}) error {
	f.filters = append(f.filters, filter)
	if f.findManyFn != nil {
		return f.findManyFn(collection, filter, opts, results)
	}
	return nil
}

func (f *fakeExecutor) FindOne(_ context.Context, collection string, filter bson.M, result interface{}) error {
	f.filters = append(f.filters, filter)
	if f.findOneFn != nil {
		return f.findOneFn(collection, filter, result)
	}
	return mongo.ErrNoDocuments
}

func (f *fakeExecutor) InsertOne(_ context.Context, collection string, doc interface{}) (primitive.ObjectID, error) {
	f.inserted = append(f.inserted, doc)
	if f.insertFn != nil {
		return f.insertFn(collection, doc)
	}
	return primitive.NewObjectID(), nil
}

func (f *fakeExecutor) UpdateOne(_ context.Context, collection string, filter, update bson.M) (int64, int64, error) {
	f.filters = append(f.filters, filter)
	f.updates = append(f.updates, update)
	if f.updateFn != nil {
		return f.updateFn(collection, filter, update)
	}
	return 1, 1, nil
}

func (f *fakeExecutor) DeleteOne(_ context.Context, collection string, filter bson.M) (int64, error) {
	f.filters = append(f.filters, filter)
	if f.deleteFn != nil {
		return f.deleteFn(collection, filter)
	}
	return 1, nil
}

func (f *fakeExecutor) Aggregate(context.Context, string, mongo.Pipeline, interface{}) error {
	return nil
}

func (f *fakeExecutor) CountDocuments(context.Context, string, bson.M) (int64, error) {
	return 0, nil
}

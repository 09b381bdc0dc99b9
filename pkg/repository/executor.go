// Package repository defines the document query contract between domain
// services and the MongoDB persistence gateway.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Executor is the minimal document execution contract services depend on.
// The mongodb store adapter implements it; tests substitute fakes.
//
// FindOne returns mongo.ErrNoDocuments when nothing matches.
type Executor interface {
	FindMany(ctx context.Context, collection string, filter bson.M, opts *options.FindOptions, results interface{}) error
	FindOne(ctx context.Context, collection string, filter bson.M, result interface{}) error
	InsertOne(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, collection string, filter, update bson.M) (matched, modified int64, err error)
	DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error)
	Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, results interface{}) error
	CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error)
}

// Collection names of the three independent persisted collections.
const (
	CollectionToy    = "toy"
	CollectionReview = "review"
	CollectionUser   = "user"
)

// ParseObjectID converts a hex string into an ObjectID, classifying a
// malformed value as a validation failure.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errInvalidID(id)
	}
	return oid, nil
}

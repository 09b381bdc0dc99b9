// Package review stores toy reviews and serves them joined with their
// reviewer and reviewed toy.
package review

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is the persisted document. It holds references only; the joined
// shape clients read is View.
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Text       string             `bson:"txt" json:"txt"`
	ByUserID   primitive.ObjectID `bson:"byUserId" json:"byUserId"`
	AboutToyID primitive.ObjectID `bson:"aboutToyId" json:"aboutToyId"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Reviewer is the user projection embedded in a View. Only the public
// fields survive the join.
type Reviewer struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Fullname string             `bson:"fullname" json:"fullname"`
}

// ReviewedToy is the toy projection embedded in a View.
type ReviewedToy struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

// View is a review joined with its reviewer and toy. Reviews whose user or
// toy no longer exists are omitted from query results entirely.
type View struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Text      string             `bson:"txt" json:"txt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	ByUser    Reviewer           `bson:"byUser" json:"byUser"`
	AboutToy  ReviewedToy        `bson:"aboutToy" json:"aboutToy"`
}

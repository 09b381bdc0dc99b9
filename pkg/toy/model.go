// Package toy provides the toy catalog service: filtered queries, CRUD, and
// the per-toy message list.
package toy

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Msg is one entry in a toy's ordered, append-only message list.
type Msg struct {
	ID        string    `bson:"id" json:"id"`
	Text      string    `bson:"txt" json:"txt"`
	By        string    `bson:"by" json:"by"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Toy is a catalog item. Timestamps are assigned by the service, never
// client-supplied. Labels are semantically a set but duplicates are not
// rejected at this layer.
type Toy struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	InStock   bool               `bson:"inStock" json:"inStock"`
	Labels    []string           `bson:"labels" json:"labels"`
	Msgs      []Msg              `bson:"msgs,omitempty" json:"msgs,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

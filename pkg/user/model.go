// Package user provides the user collection services. Users are consumed by
// the review join as a reference target and back the identity context.
package user

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a registered account. The password field holds the argon2id hash
// and never serializes to JSON.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Fullname string             `bson:"fullname" json:"fullname"`
	Password string             `bson:"password" json:"-"`
	IsAdmin  bool               `bson:"isAdmin" json:"isAdmin"`
}

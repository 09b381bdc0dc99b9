package controller

import (
	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/repository"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bindJSON decodes the request body, classifying failures as validation
// errors so they map to 400 instead of 500.
func bindJSON(c router.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return apperr.NewValidation("invalid request body").WithCause(err)
	}
	return nil
}

func parseObjectIDParam(c router.Context, name string) (primitive.ObjectID, error) {
	return repository.ParseObjectID(c.Param(name))
}

// Package controller binds the HTTP API to the domain services. Handlers
// parse transport input, call the service, and shape the response; all error
// classification happens in the services.
package controller

import (
	"context"
	"net/http"

	"github.com/mistertoy/mistertoy-server/pkg/auth"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	"github.com/mistertoy/mistertoy-server/pkg/toy"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToyService is the slice of the toy service the controller consumes.
type ToyService interface {
	Query(ctx context.Context, filter *toy.Filter) ([]toy.Toy, error)
	Get(ctx context.Context, id string) (*toy.Toy, error)
	Save(ctx context.Context, t toy.Toy) (*toy.Toy, error)
	Remove(ctx context.Context, id string) (int64, error)
	AddMsg(ctx context.Context, toyID string, msg toy.Msg) (*toy.Msg, error)
	RemoveMsg(ctx context.Context, toyID, msgID string) (string, error)
}

// ToyController serves the /api/toy routes.
type ToyController struct {
	toys ToyService
}

func NewToyController(toys ToyService) *ToyController {
	return &ToyController{toys: toys}
}

func (ct *ToyController) Query(c router.Context) error {
	raw := toy.RawFilter{
		Name:     c.Query("name"),
		InStock:  c.Query("inStock"),
		Labels:   c.Request().URL.Query()["labels"],
		SortBy:   c.Query("sortBy"),
		SortDir:  c.Query("sortDir"),
		PageIdx:  c.Query("pageIdx"),
		PageSize: c.Query("pageSize"),
	}

	filter, err := toy.ParseFilter(raw)
	if err != nil {
		return err
	}

	toys, err := ct.toys.Query(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toys)
}

func (ct *ToyController) Get(c router.Context) error {
	t, err := ct.toys.Get(c.Request().Context(), c.Param("toyId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (ct *ToyController) Add(c router.Context) error {
	var t toy.Toy
	if err := bindJSON(c, &t); err != nil {
		return err
	}
	// An id in the payload would turn the insert into an update.
	t.ID = primitive.NilObjectID

	saved, err := ct.toys.Save(c.Request().Context(), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, saved)
}

func (ct *ToyController) Update(c router.Context) error {
	var t toy.Toy
	if err := bindJSON(c, &t); err != nil {
		return err
	}

	id, err := parseObjectIDParam(c, "toyId")
	if err != nil {
		return err
	}
	t.ID = id

	saved, err := ct.toys.Save(c.Request().Context(), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

func (ct *ToyController) Remove(c router.Context) error {
	count, err := ct.toys.Remove(c.Request().Context(), c.Param("toyId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"removed": count})
}

func (ct *ToyController) AddMsg(c router.Context) error {
	var payload struct {
		Text string `json:"txt"`
	}
	if err := bindJSON(c, &payload); err != nil {
		return err
	}

	by := ""
	if identity := auth.IdentityFromContext(c.Request().Context()); identity != nil {
		by = identity.Fullname
	}

	msg, err := ct.toys.AddMsg(c.Request().Context(), c.Param("toyId"), toy.Msg{
		Text: payload.Text,
		By:   by,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

func (ct *ToyController) RemoveMsg(c router.Context) error {
	msgID, err := ct.toys.RemoveMsg(c.Request().Context(), c.Param("toyId"), c.Param("msgId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"removed": msgID})
}

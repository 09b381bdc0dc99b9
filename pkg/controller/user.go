package controller

import (
	"context"
	"net/http"

	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	"github.com/mistertoy/mistertoy-server/pkg/user"
)

// UserService is the slice of the user service the controller consumes.
type UserService interface {
	Get(ctx context.Context, id string) (*user.User, error)
	Query(ctx context.Context) ([]user.User, error)
	Remove(ctx context.Context, id string) (int64, error)
}

// UserController serves the /api/user routes.
type UserController struct {
	users UserService
}

func NewUserController(users UserService) *UserController {
	return &UserController{users: users}
}

func (ct *UserController) Query(c router.Context) error {
	users, err := ct.users.Query(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (ct *UserController) Get(c router.Context) error {
	u, err := ct.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (ct *UserController) Remove(c router.Context) error {
	count, err := ct.users.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"removed": count})
}

package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/middleware/authn"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	"github.com/mistertoy/mistertoy-server/pkg/user"
)

// AuthService is the slice of the auth service the controller consumes.
type AuthService interface {
	Signup(ctx context.Context, username, password, fullname string) (*user.User, string, error)
	Login(ctx context.Context, username, password string) (*user.User, string, error)
}

// AuthController serves the /api/auth routes. On signup and login it sets
// the loginToken cookie browsers use; API clients read the token field.
type AuthController struct {
	auth     AuthService
	tokenTTL time.Duration
}

func NewAuthController(auth AuthService, tokenTTL time.Duration) *AuthController {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthController{auth: auth, tokenTTL: tokenTTL}
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

type sessionResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

func (ct *AuthController) Signup(c router.Context) error {
	var payload credentialsPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}

	u, token, err := ct.auth.Signup(c.Request().Context(), payload.Username, payload.Password, payload.Fullname)
	if err != nil {
		return err
	}

	ct.setLoginCookie(c, token)
	return c.JSON(http.StatusCreated, sessionResponse{User: u, Token: token})
}

func (ct *AuthController) Login(c router.Context) error {
	var payload credentialsPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}

	u, token, err := ct.auth.Login(c.Request().Context(), payload.Username, payload.Password)
	if err != nil {
		return err
	}

	ct.setLoginCookie(c, token)
	return c.JSON(http.StatusOK, sessionResponse{User: u, Token: token})
}

func (ct *AuthController) Logout(c router.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     authn.LoginTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

func (ct *AuthController) setLoginCookie(c router.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     authn.LoginTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ct.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

package auth

import (
	"context"
	"errors"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/user"
)

// Service implements signup and login on top of the user collection and the
// token manager.
type Service struct {
	users  *user.Service
	tokens *TokenManager
	log    logger.Logger
}

// NewService creates an auth Service.
func NewService(users *user.Service, tokens *TokenManager, log logger.Logger) *Service {
	if log == nil {
		log = logger.Noop{}
	}
	return &Service{users: users, tokens: tokens, log: log}
}

// Signup registers a new user and issues a login token for it.
func (s *Service) Signup(ctx context.Context, username, password, fullname string) (*user.User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", apperr.NewValidation(err.Error())
	}

	added, err := s.users.Add(ctx, user.User{
		Username: username,
		Fullname: fullname,
		Password: hash,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueFor(added)
	if err != nil {
		return nil, "", err
	}
	s.log.WithContext(ctx).Info("user signed up", "username", username)
	return added, token, nil
}

// Login verifies the credentials and issues a login token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*user.User, string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, "", apperr.NewUnauthenticated("invalid username or password")
		}
		return nil, "", err
	}

	if err := VerifyPassword(password, u.Password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, "", apperr.NewUnauthenticated("invalid username or password")
		}
		s.log.WithContext(ctx).Error("cannot verify password", "username", username, "error", err)
		return nil, "", apperr.NewUnauthenticated("invalid username or password")
	}

	token, err := s.issueFor(u)
	if err != nil {
		return nil, "", err
	}
	s.log.WithContext(ctx).Info("user logged in", "username", username)
	return u, token, nil
}

func (s *Service) issueFor(u *user.User) (string, error) {
	token, err := s.tokens.Issue(Identity{
		ID:       u.ID.Hex(),
		Fullname: u.Fullname,
		IsAdmin:  u.IsAdmin,
	})
	if err != nil {
		return "", apperr.NewStore("cannot issue login token", err)
	}
	return token, nil
}

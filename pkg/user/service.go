package user

import (
	"context"
	"errors"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service provides read and signup access to the user collection.
type Service struct {
	exec repository.Executor
	log  logger.Logger
}

// NewService creates a user Service backed by the given executor.
func NewService(exec repository.Executor, log logger.Logger) *Service {
	if log == nil {
		log = logger.Noop{}
	}
	return &Service{exec: exec, log: log}
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return nil, err
	}

	var u User
	if err := s.exec.FindOne(ctx, repository.CollectionUser, bson.M{"_id": oid}, &u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NewNotFound("user not found")
		}
		s.log.WithContext(ctx).Error("cannot get user", "user_id", id, "error", err)
		return nil, apperr.NewStore("cannot get user", err)
	}
	return &u, nil
}

// GetByUsername fetches a user by username. Used by login.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, apperr.NewValidation("username is required")
	}

	var u User
	if err := s.exec.FindOne(ctx, repository.CollectionUser, bson.M{"username": username}, &u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NewNotFound("user not found")
		}
		s.log.WithContext(ctx).Error("cannot get user", "username", username, "error", err)
		return nil, apperr.NewStore("cannot get user", err)
	}
	return &u, nil
}

// Query lists all users.
func (s *Service) Query(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.exec.FindMany(ctx, repository.CollectionUser, bson.M{}, nil, &users); err != nil {
		s.log.WithContext(ctx).Error("cannot query users", "error", err)
		return nil, apperr.NewStore("cannot query users", err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// Add inserts a new user. The caller supplies an already-hashed password.
// Usernames are unique; a taken username is rejected as validation failure.
func (s *Service) Add(ctx context.Context, u User) (*User, error) {
	if u.Username == "" {
		return nil, apperr.NewValidation("username is required")
	}
	if u.Password == "" {
		return nil, apperr.NewValidation("password is required")
	}

	if _, err := s.GetByUsername(ctx, u.Username); err == nil {
		return nil, apperr.NewValidationf("username %q is taken", u.Username)
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	id, err := s.exec.InsertOne(ctx, repository.CollectionUser, bson.M{
		"username": u.Username,
		"fullname": u.Fullname,
		"password": u.Password,
		"isAdmin":  u.IsAdmin,
	})
	if err != nil {
		s.log.WithContext(ctx).Error("cannot add user", "username", u.Username, "error", err)
		return nil, apperr.NewStore("cannot add user", err)
	}
	u.ID = id
	return &u, nil
}

// Remove deletes a user by id and returns the deleted count. Reviews
// referencing the user are left in place; the review join simply stops
// resolving them.
func (s *Service) Remove(ctx context.Context, id string) (int64, error) {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return 0, err
	}
	count, err := s.exec.DeleteOne(ctx, repository.CollectionUser, bson.M{"_id": oid})
	if err != nil {
		s.log.WithContext(ctx).Error("cannot remove user", "user_id", id, "error", err)
		return 0, apperr.NewStore("cannot remove user", err)
	}
	return count, nil
}

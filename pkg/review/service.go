package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/auth"
	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service provides review operations. Reads return the joined View shape;
// writes operate on the reference-only Review document.
type Service struct {
	exec  repository.Executor
	guard auth.Guard
	log   logger.Logger
	now   func() time.Time
}

func NewService(exec repository.Executor, log logger.Logger) *Service {
	if log == nil {
		log = logger.Noop{}
	}
	return &Service{exec: exec, log: log, now: time.Now}
}

// Query returns reviews joined with their reviewer and toy. The join is
// strict: a review referencing a deleted user or toy is dropped from the
// result, not returned partially.
func (s *Service) Query(ctx context.Context, filter *Filter) ([]View, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.Criteria()}},
		{{Key: "$lookup", Value: bson.M{
			"from":         repository.CollectionUser,
			"localField":   "byUserId",
			"foreignField": "_id",
			"as":           "byUser",
		}}},
		{{Key: "$unwind", Value: "$byUser"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         repository.CollectionToy,
			"localField":   "aboutToyId",
			"foreignField": "_id",
			"as":           "aboutToy",
		}}},
		{{Key: "$unwind", Value: "$aboutToy"}},
		{{Key: "$project", Value: bson.M{
			"txt":             1,
			"createdAt":       1,
			"byUser._id":      1,
			"byUser.fullname": 1,
			"aboutToy._id":    1,
			"aboutToy.name":   1,
		}}},
	}

	var views []View
	if err := s.exec.Aggregate(ctx, repository.CollectionReview, pipeline, &views); err != nil {
		s.log.WithContext(ctx).Error("cannot query reviews", "error", err)
		return nil, apperr.NewStore("cannot query reviews", err)
	}
	if views == nil {
		views = []View{}
	}
	return views, nil
}

// Add creates a review authored by the identity on ctx about the given toy.
// The toy must exist; the reviewer is taken from the request identity, never
// from the payload.
func (s *Service) Add(ctx context.Context, text, aboutToyID string) (*View, error) {
	identity := auth.IdentityFromContext(ctx)
	if identity == nil {
		return nil, apperr.NewUnauthenticated("login required")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.NewValidation("review text is required")
	}

	userID, err := repository.ParseObjectID(identity.ID)
	if err != nil {
		return nil, err
	}
	toyID, err := repository.ParseObjectID(aboutToyID)
	if err != nil {
		return nil, err
	}

	var reviewedToy ReviewedToy
	if err := s.exec.FindOne(ctx, repository.CollectionToy, bson.M{"_id": toyID}, &reviewedToy); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NewNotFound("toy not found")
		}
		s.log.WithContext(ctx).Error("cannot add review", "toy_id", aboutToyID, "error", err)
		return nil, apperr.NewStore("cannot add review", err)
	}

	createdAt := s.now().UTC().Truncate(time.Millisecond)
	id, err := s.exec.InsertOne(ctx, repository.CollectionReview, bson.M{
		"txt":        text,
		"byUserId":   userID,
		"aboutToyId": toyID,
		"createdAt":  createdAt,
	})
	if err != nil {
		s.log.WithContext(ctx).Error("cannot add review", "toy_id", aboutToyID, "error", err)
		return nil, apperr.NewStore("cannot add review", err)
	}

	return &View{
		ID:        id,
		Text:      text,
		CreatedAt: createdAt,
		ByUser:    Reviewer{ID: userID, Fullname: identity.Fullname},
		AboutToy:  reviewedToy,
	}, nil
}

// Remove deletes a review. Only the author or an admin may do so; the delete
// criteria for a non-admin is additionally narrowed to their own documents
// so a racing ownership change cannot widen the delete.
func (s *Service) Remove(ctx context.Context, id string) (int64, error) {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return 0, err
	}

	var rev Review
	if err := s.exec.FindOne(ctx, repository.CollectionReview, bson.M{"_id": oid}, &rev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, apperr.NewNotFound("review not found")
		}
		s.log.WithContext(ctx).Error("cannot remove review", "review_id", id, "error", err)
		return 0, apperr.NewStore("cannot remove review", err)
	}

	if err := s.guard.CanMutate(ctx, rev.ByUserID.Hex()); err != nil {
		return 0, err
	}

	criteria := bson.M{"_id": oid}
	identity := auth.IdentityFromContext(ctx)
	if !identity.IsAdmin {
		criteria["byUserId"] = rev.ByUserID
	}

	count, err := s.exec.DeleteOne(ctx, repository.CollectionReview, criteria)
	if err != nil {
		s.log.WithContext(ctx).Error("cannot remove review", "review_id", id, "error", err)
		return 0, apperr.NewStore("cannot remove review", err)
	}
	return count, nil
}

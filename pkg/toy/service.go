package toy

import (
	"context"
	"errors"
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/realtime"
	"github.com/mistertoy/mistertoy-server/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service provides toy catalog operations on top of the persistence gateway.
type Service struct {
	exec    repository.Executor
	log     logger.Logger
	events  realtime.Bus
	channel string
	now     func() time.Time
}

// NewService creates a toy Service. events may be nil to disable
// notifications.
func NewService(exec repository.Executor, log logger.Logger, events realtime.Bus, channel string) *Service {
	if log == nil {
		log = logger.Noop{}
	}
	if channel == "" {
		channel = "toys"
	}
	return &Service{exec: exec, log: log, events: events, channel: channel, now: time.Now}
}

// Query returns the toys matching the filter, ordered and paginated.
func (s *Service) Query(ctx context.Context, filter *Filter) ([]Toy, error) {
	opts := filter.Options()

	var toys []Toy
	if err := s.exec.FindMany(ctx, repository.CollectionToy, opts.Criteria, opts.FindOptions(), &toys); err != nil {
		s.log.WithContext(ctx).Error("cannot query toys", "error", err)
		return nil, apperr.NewStore("cannot query toys", err)
	}
	if toys == nil {
		toys = []Toy{}
	}
	return toys, nil
}

// Get fetches a toy by id.
func (s *Service) Get(ctx context.Context, id string) (*Toy, error) {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return nil, err
	}

	var t Toy
	if err := s.exec.FindOne(ctx, repository.CollectionToy, bson.M{"_id": oid}, &t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NewNotFound("toy not found")
		}
		s.log.WithContext(ctx).Error("cannot get toy", "toy_id", id, "error", err)
		return nil, apperr.NewStore("cannot get toy", err)
	}
	return &t, nil
}

// Save inserts the toy when it has no id, otherwise updates the matching
// document's content fields. Timestamps are assigned here; client-supplied
// values are ignored.
func (s *Service) Save(ctx context.Context, t Toy) (*Toy, error) {
	if t.Name == "" {
		return nil, apperr.NewValidation("toy name is required")
	}

	saved, err := s.save(ctx, t)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, realtime.EventToySaved, saved)
	return saved, nil
}

func (s *Service) save(ctx context.Context, t Toy) (*Toy, error) {
	now := s.now().UTC().Truncate(time.Millisecond)

	if t.ID.IsZero() {
		if t.Labels == nil {
			t.Labels = []string{}
		}
		t.CreatedAt = now
		t.UpdatedAt = now
		t.Msgs = nil

		id, err := s.exec.InsertOne(ctx, repository.CollectionToy, bson.M{
			"name":      t.Name,
			"price":     t.Price,
			"inStock":   t.InStock,
			"labels":    t.Labels,
			"createdAt": t.CreatedAt,
			"updatedAt": t.UpdatedAt,
		})
		if err != nil {
			s.log.WithContext(ctx).Error("cannot save toy", "error", err)
			return nil, apperr.NewStore("cannot save toy", err)
		}
		t.ID = id
		return &t, nil
	}

	t.UpdatedAt = now
	matched, _, err := s.exec.UpdateOne(ctx, repository.CollectionToy,
		bson.M{"_id": t.ID},
		bson.M{"$set": bson.M{
			"name":      t.Name,
			"price":     t.Price,
			"inStock":   t.InStock,
			"labels":    t.Labels,
			"updatedAt": t.UpdatedAt,
		}},
	)
	if err != nil {
		s.log.WithContext(ctx).Error("cannot save toy", "toy_id", t.ID.Hex(), "error", err)
		return nil, apperr.NewStore("cannot save toy", err)
	}
	if matched == 0 {
		return nil, apperr.NewNotFound("toy not found for update")
	}
	return &t, nil
}

// Remove deletes a toy by id and returns the deleted count.
func (s *Service) Remove(ctx context.Context, id string) (int64, error) {
	oid, err := repository.ParseObjectID(id)
	if err != nil {
		return 0, err
	}

	count, err := s.exec.DeleteOne(ctx, repository.CollectionToy, bson.M{"_id": oid})
	if err != nil {
		s.log.WithContext(ctx).Error("cannot remove toy", "toy_id", id, "error", err)
		return 0, apperr.NewStore("cannot remove toy", err)
	}
	if count > 0 {
		s.notify(ctx, realtime.EventToyRemoved, map[string]string{"_id": id})
	}
	return count, nil
}

// AddMsg appends a message to the toy's msgs list and returns it with its
// assigned id and timestamp.
func (s *Service) AddMsg(ctx context.Context, toyID string, msg Msg) (*Msg, error) {
	oid, err := repository.ParseObjectID(toyID)
	if err != nil {
		return nil, err
	}
	if msg.Text == "" {
		return nil, apperr.NewValidation("message text is required")
	}

	msg.ID = primitive.NewObjectID().Hex()
	msg.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	matched, _, err := s.exec.UpdateOne(ctx, repository.CollectionToy,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"msgs": msg}},
	)
	if err != nil {
		s.log.WithContext(ctx).Error("cannot add toy msg", "toy_id", toyID, "error", err)
		return nil, apperr.NewStore("cannot add toy msg", err)
	}
	if matched == 0 {
		return nil, apperr.NewNotFound("toy not found")
	}
	return &msg, nil
}

// RemoveMsg pulls a message from the toy's msgs list and returns its id.
func (s *Service) RemoveMsg(ctx context.Context, toyID, msgID string) (string, error) {
	oid, err := repository.ParseObjectID(toyID)
	if err != nil {
		return "", err
	}

	matched, _, err := s.exec.UpdateOne(ctx, repository.CollectionToy,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"msgs": bson.M{"id": msgID}}},
	)
	if err != nil {
		s.log.WithContext(ctx).Error("cannot remove toy msg", "toy_id", toyID, "msg_id", msgID, "error", err)
		return "", apperr.NewStore("cannot remove toy msg", err)
	}
	if matched == 0 {
		return "", apperr.NewNotFound("toy not found")
	}
	return msgID, nil
}

// notify publishes a toy event without awaiting delivery. Failures are
// logged and otherwise ignored; mutations never fail on notification.
func (s *Service) notify(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, realtime.NewEvent(s.channel, eventType, payload)); err != nil {
		s.log.WithContext(ctx).Warn("cannot publish toy event", "type", eventType, "error", err)
	}
}

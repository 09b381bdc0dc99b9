// Package mongodb provides the MongoDB persistence gateway.
package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds MongoDB adapter configuration.
type Config struct {
	URL              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// Adapter owns the single shared MongoDB connection for the process.
//
// The connection is established lazily: the first operation pays the dial
// cost while holding the connect lock, concurrent callers wait on it and
// reuse the same client. A failed dial is surfaced to that caller and left
// unmemoized, so a later operation may attempt the dial again.
type Adapter struct {
	cfg    Config
	logger logger.Logger

	connectMu sync.Mutex
	client    *mongo.Client

	stateMu sync.RWMutex
	closed  bool
}

// NewAdapter validates the configuration and returns an unconnected adapter.
// No I/O happens until the first operation.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongodb URL is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb database is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Noop{}
	}
	return &Adapter{cfg: cfg, logger: log}, nil
}

// connect returns the shared client, dialing it on first use. Holding
// connectMu for the duration of the dial gives single-flight behavior: a
// second concurrent caller blocks until the first dial resolves and then
// observes either the connected client or a nil one it may redial.
func (a *Adapter) connect(ctx context.Context) (*mongo.Client, error) {
	a.stateMu.RLock()
	closed := a.closed
	a.stateMu.RUnlock()
	if closed {
		return nil, fmt.Errorf("mongodb adapter is closed")
	}

	a.connectMu.Lock()
	defer a.connectMu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, a.cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(a.cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	a.logger.Info("MongoDB connection established", "database", a.cfg.Database)
	a.client = client
	return client, nil
}

// Collection returns a handle bound to the shared connection.
func (a *Adapter) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	client, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(a.cfg.Database).Collection(name), nil
}

// FindMany runs a find with the given options and decodes all results.
func (a *Adapter) FindMany(ctx context.Context, collection string, filter bson.M, opts *options.FindOptions, results interface{}) error {
	coll, err := a.Collection(ctx, collection)
	if err != nil {
		return err
	}
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	cursor, err := coll.Find(opCtx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(opCtx, results)
}

// FindOne finds a single document matching the filter. Returns
// mongo.ErrNoDocuments when nothing matches.
func (a *Adapter) FindOne(ctx context.Context, collection string, filter bson.M, result interface{}) error {
	coll, err := a.Collection(ctx, collection)
	if err != nil {
		return err
	}
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	return coll.FindOne(opCtx, filter).Decode(result)
}

// InsertOne inserts a document and returns its assigned ObjectID.
func (a *Adapter) InsertOne(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error) {
	coll, err := a.Collection(ctx, collection)
	if err != nil {
		return primitive.NilObjectID, err
	}
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	result, err := coll.InsertOne(opCtx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}

// UpdateOne updates a single document. Returns matched and modified counts.
func (a *Adapter) UpdateOne(ctx context.Context, collection string, filter, update bson.M) (int64, int64, error) {
	coll, err := a.Collection(ctx, collection)
	if err != nil {
		return 0, 0, err
	}
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	result, err := coll.UpdateOne(opCtx, filter, update)
	if err != nil {
		return 0, 0, err
	}
	return result.MatchedCount, result.ModifiedCount, nil
}

// DeleteOne deletes a single document matching the filter.
func (a *Adapter) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	coll, err := a.Collection(ctx, collection)
	if err != nil {
		return 0, err
	}
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	result, err := coll.DeleteOne(opCtx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Aggregate runs an aggregation pipeline and decodes all results.
func (a *Adapter) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, results interface{}) error {
	coll, err := a.Collection(ctx, collection)
	if err != nil {
		return err
	}
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	cursor, err := coll.Aggregate(opCtx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(opCtx, results)
}

// CountDocuments counts documents matching the filter.
func (a *Adapter) CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error) {
	coll, err := a.Collection(ctx, collection)
	if err != nil {
		return 0, err
	}
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	return coll.CountDocuments(opCtx, filter)
}

// Ping verifies connectivity, dialing if needed.
func (a *Adapter) Ping(ctx context.Context) error {
	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// HealthCheck pings with a short timeout for liveness/readiness probes.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := a.Ping(hcCtx); err != nil {
		a.logger.Error("MongoDB health check failed", "error", err)
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the shared client. Idempotent.
func (a *Adapter) Close() error {
	a.stateMu.Lock()
	if a.closed {
		a.stateMu.Unlock()
		return nil
	}
	a.closed = true
	a.stateMu.Unlock()

	a.connectMu.Lock()
	client := a.client
	a.client = nil
	a.connectMu.Unlock()

	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	return nil
}

func (a *Adapter) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.cfg.OperationTimeout)
}

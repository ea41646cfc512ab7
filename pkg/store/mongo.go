package store

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/tokenlogo/pkg/errors"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "tokenlogo"
	DefaultCollection = "logos"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string // defaults to DefaultDatabase
	Collection string // defaults to DefaultCollection
}

// MongoStore persists records as documents, one per (name, symbol) pair.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings the primary, and ensures the unique
// (name, symbol) index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "symbol", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create logo index")
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Save upserts the record. The ID and creation time are only written on
// insert, so repeated saves keep the original values.
func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	filter := bson.D{{Key: "name", Value: rec.Name}, {Key: "symbol", Value: rec.Symbol}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "seed", Value: rec.Seed},
			{Key: "sha256", Value: rec.SHA256},
			{Key: "size", Value: rec.Size},
			{Key: "png", Value: rec.PNG},
			{Key: "updated_at", Value: rec.UpdatedAt},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: rec.ID},
			{Key: "created_at", Value: rec.CreatedAt},
		}},
	}
	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save logo %s (%s)", rec.Name, rec.Symbol)
	}
	return nil
}

// Get loads the record for a pair.
func (s *MongoStore) Get(ctx context.Context, name, symbol string) (*Record, error) {
	filter := bson.D{{Key: "name", Value: name}, {Key: "symbol", Value: symbol}}
	var rec Record
	err := s.coll.FindOne(ctx, filter).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name, symbol)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load logo %s (%s)", name, symbol)
	}
	return &rec, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

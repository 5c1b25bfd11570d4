package source

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"tally/internal/tally"
)

// ── MongoDB Source ──────────────────────────────────────────
// Reads record instances from a MongoDB collection, one document per
// record, field-keyed. Read-only.

type mongoDriver struct{}

func init() { Register(&mongoDriver{}) }

func (d *mongoDriver) Type() string { return "mongo" }

func (d *mongoDriver) FetchAll(ctx context.Context, cfg Config, s *tally.Schema) ([]tally.Record, error) {
	if cfg.URI == "" || cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("mongo source: uri, database and collection are required")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cursor.Close(ctx)

	names := s.FieldNames()
	var records []tally.Record
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		data := make(map[string]any, len(names))
		for _, name := range names {
			data[name] = normalizeBSONValue(doc[name])
		}
		records = append(records, tally.Record{Schema: s, Data: data})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return records, nil
}

func (d *mongoDriver) Append(_ context.Context, _ Config, _ tally.Record) error {
	return fmt.Errorf("mongo source: %w", ErrReadOnly)
}

func normalizeBSONValue(v any) any {
	switch x := v.(type) {
	case bson.DateTime:
		return x.Time()
	case int32:
		return int64(x)
	default:
		return v
	}
}

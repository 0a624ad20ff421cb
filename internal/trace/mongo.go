package trace

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mhollis/finadvisor/internal/domain"
)

// MongoWriter stores traces in a MongoDB collection. Documents are
// append-only; the only mutation is pushing operator overrides.
type MongoWriter struct {
	client     *mongo.Client
	database   string
	collection string
}

// MongoOptions configures the trace collection.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoWriter connects to MongoDB and pings the deployment before
// returning a writer.
func NewMongoWriter(ctx context.Context, opts MongoOptions) (*MongoWriter, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("trace mongo URI is required")
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(options.Client().ApplyURI(opts.URI).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoWriter{
		client:     client,
		database:   opts.Database,
		collection: opts.Collection,
	}, nil
}

func (w *MongoWriter) coll() *mongo.Collection {
	return w.client.Database(w.database).Collection(w.collection)
}

func (w *MongoWriter) WriteTrace(ctx context.Context, t domain.Trace) error {
	if _, err := w.coll().InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert trace %s: %w", t.ID, err)
	}
	return nil
}

func (w *MongoWriter) TracesForUser(ctx context.Context, userID string) ([]domain.Trace, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := w.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find traces for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var traces []domain.Trace
	for cursor.Next(ctx) {
		var t domain.Trace
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode trace: %w", err)
		}
		traces = append(traces, t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("trace cursor: %w", err)
	}
	return traces, nil
}

func (w *MongoWriter) AppendOverride(ctx context.Context, traceID string, o domain.OverrideRecord) error {
	res, err := w.coll().UpdateByID(ctx, traceID, bson.M{"$push": bson.M{"overrides": o}})
	if err != nil {
		return fmt.Errorf("append override to %s: %w", traceID, err)
	}
	if res.MatchedCount == 0 {
		return ErrTraceNotFound
	}
	return nil
}

func (w *MongoWriter) Close(ctx context.Context) error {
	return w.client.Disconnect(ctx)
}

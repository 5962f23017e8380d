package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore maps each logical collection onto a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// ConnectMongo initializes the MongoDB connection and pings the server.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	slog.Info("connected to mongodb", "database", database)
	return &MongoStore{client: client, db: client.Database(database), now: time.Now}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *MongoStore) Get(ctx context.Context, collection, id string, out any) error {
	err := s.coll(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, collection string, q Query, out any) error {
	filter := bson.M{}
	for k, v := range q.Where {
		filter[k] = v
	}

	findOptions := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		findOptions.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}

	cursor, err := s.coll(collection).Find(ctx, filter, findOptions)
	if err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	m, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = NewID()
	}
	now := timestamp(s.now())
	m["_id"] = id
	m["createdAt"] = now
	m["updatedAt"] = now

	if _, err := s.coll(collection).InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%s/%s: %w", collection, id, ErrDuplicate)
		}
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		if k == "_id" || k == "createdAt" {
			continue
		}
		set[k] = v
	}
	set["updatedAt"] = timestamp(s.now())

	res, err := s.coll(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc any, merge bool) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	now := timestamp(s.now())
	delete(m, "_id")

	if merge {
		created, ok := m["createdAt"]
		if !ok {
			created = now
		}
		delete(m, "createdAt")
		m["updatedAt"] = now
		_, err := s.coll(collection).UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": m, "$setOnInsert": bson.M{"createdAt": created}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("merge %s/%s: %w", collection, id, err)
		}
		return nil
	}

	// Replacement keeps the original creation time.
	var existing struct {
		CreatedAt any `bson:"createdAt"`
	}
	err = s.coll(collection).FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"createdAt": 1})).Decode(&existing)
	switch {
	case err == nil && existing.CreatedAt != nil:
		m["createdAt"] = existing.CreatedAt
	case err == nil || errors.Is(err, mongo.ErrNoDocuments):
		if _, ok := m["createdAt"]; !ok {
			m["createdAt"] = now
		}
	default:
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	m["updatedAt"] = now

	_, err = s.coll(collection).ReplaceOne(ctx, bson.M{"_id": id}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Remove(ctx context.Context, collection, id string) error {
	res, err := s.coll(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// RunInTransaction uses a client session; the server must be a replica set.
func (s *MongoStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

// EnsureIndexes creates the secondary indexes used by List queries.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		ClosetItems:    {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}}}},
		BodyScans:      {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		FriendRequests: {{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "status", Value: 1}}}},
		Friendships:    {{Keys: bson.D{{Key: "userId", Value: 1}}}},
		CalendarEvents: {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}}},
		Users:          {{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}
	for name, models := range indexes {
		if _, err := s.coll(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

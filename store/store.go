// Package store is the document store adapter: one CRUD interface with a
// MongoDB backend for deployments and an in-memory backend for local runs and tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Logical collections.
const (
	Users          = "users"
	Profiles       = "profiles"
	ClosetItems    = "closet_items"
	BodyScans      = "body_scans"
	Avatars        = "avatars"
	FriendRequests = "friend_requests"
	Friendships    = "friendships"
	CalendarEvents = "calendar_events"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)

// Query selects documents by field equality. OrderBy and Limit are optional.
type Query struct {
	Where   map[string]any
	OrderBy string
	Desc    bool
	Limit   int
}

// Store is implemented by every storage backend.
//
// All writes stamp createdAt/updatedAt. Get, Update and Remove return
// ErrNotFound for a missing id. List decodes into a pointer to a slice.
type Store interface {
	Get(ctx context.Context, collection, id string, out any) error
	List(ctx context.Context, collection string, q Query, out any) error
	Add(ctx context.Context, collection string, doc any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Set(ctx context.Context, collection, id string, doc any, merge bool) error
	Remove(ctx context.Context, collection, id string) error

	// RunInTransaction runs fn atomically. fn must use tx (and the ctx it is
	// given) for every operation that belongs to the transaction.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// NewID returns a fresh document id.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// toDocument normalizes any bson-encodable value into a bson.M.
func toDocument(doc any) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	return m, nil
}

func fromDocument(m bson.M, out any) error {
	data, err := bson.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := bson.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func timestamp(t time.Time) primitive.DateTime {
	return primitive.NewDateTimeFromTime(t)
}

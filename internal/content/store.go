package content

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrNotFound = errors.New("document not found")

// Query is the filter, order and size of one mirrored result set.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Limit  int64
}

// Store is the remote document collection behind one entity type. Writes take
// flat field maps; nested leaves use dotted paths. The store assigns createdAt
// and updatedAt itself.
type Store[T any] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	Exists(ctx context.Context) (bool, error)
	Insert(ctx context.Context, id string, fields bson.M) error
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

// NewestFirst is the order every list contract depends on.
var NewestFirst = bson.D{{Key: "createdAt", Value: -1}}

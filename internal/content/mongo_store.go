package content

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore[T any] struct {
	col *mongo.Collection
}

func NewMongoStore[T any](col *mongo.Collection) *MongoStore[T] {
	return &MongoStore[T]{col: col}
}

func (s *MongoStore[T]) Find(ctx context.Context, q Query) ([]T, error) {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoStore[T]) Exists(ctx context.Context) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert upserts on a fresh id so the server clock stamps both timestamps.
func (s *MongoStore[T]) Insert(ctx context.Context, id string, fields bson.M) error {
	update := bson.M{
		"$currentDate": bson.M{"createdAt": true, "updatedAt": true},
	}
	if len(fields) > 0 {
		update["$setOnInsert"] = fields
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore[T]) Update(ctx context.Context, id string, fields bson.M) error {
	update := bson.M{
		"$set":         fields,
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore[T]) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

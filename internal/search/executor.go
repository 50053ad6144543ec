package search

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the slice of the document-store client the executor needs.
// *mongo.Collection satisfies it.
type Collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Result is one page of matching records. Pages is the total page count for
// the filter, Page echoes the requested page number.
type Result[T any] struct {
	Records []T
	Total   int64
	Page    int
	Pages   int
}

// Outcome distinguishes a search that never ran from one that ran and may
// have matched nothing. A search does not run when a dependent lookup (an
// owner name that resolves to no user) leaves no eligible filter.
type Outcome[T any] struct {
	Ran    bool
	Result Result[T]
}

// NotRun is the outcome of a search short-circuited before execution.
func NotRun[T any]() Outcome[T] {
	return Outcome[T]{}
}

// Ran wraps an executed result.
func Ran[T any](r Result[T]) Outcome[T] {
	return Outcome[T]{Ran: true, Result: r}
}

// Execute counts the documents matching filter, then fetches the requested
// page ordered by sort. Page numbers are 1-based; records before
// pageSize*(page-1) are skipped. The count and the fetch are two independent
// round trips with no transactional bracketing.
func Execute[T any](ctx context.Context, coll Collection, filter bson.M, sort bson.D, page, pageSize int) (Result[T], error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return Result[T]{}, fmt.Errorf("failed to count documents: %w", err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(pageSize * (page - 1))).
		SetLimit(int64(pageSize))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return Result[T]{}, fmt.Errorf("failed to fetch documents: %w", err)
	}
	defer cursor.Close(ctx)

	var records []T
	if err := cursor.All(ctx, &records); err != nil {
		return Result[T]{}, fmt.Errorf("failed to decode documents: %w", err)
	}

	return Result[T]{
		Records: records,
		Total:   total,
		Page:    page,
		Pages:   PageCount(total, pageSize),
	}, nil
}

// PageCount returns ceil(total/pageSize); zero when nothing matched.
func PageCount(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

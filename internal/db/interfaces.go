package db

import (
	"context"
	"errors"

	"petshare-backend-go/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// PostsEvent is one push from the realtime posts subscription: the full
// current collection keyed by document ID, or a terminal stream error.
// Exactly one of Posts/Err is meaningful; after an Err event the stream ends.
type PostsEvent struct {
	Posts map[string]models.Post
	Err   error
}

// PostRepository defines the interface for post storage operations.
//
// Insert returns the store-assigned document ID. Watch opens one live
// subscription delivering the entire collection on the initial snapshot and
// after every subsequent mutation; the returned channel closes when ctx is
// cancelled or the stream fails.
type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) (string, error)
	List(ctx context.Context) ([]models.Post, error)
	Watch(ctx context.Context) (<-chan PostsEvent, error)
}

package core

import (
	"context"
	"io"

	"petshare-backend-go/internal/models"
)

// ImageUploader sends an image to the external hosting API and returns the
// hosted URL. Implemented by upload.ImgBBClient; faked in tests.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, image io.Reader) (string, error)
}

// SubmitRequest carries one post submission. A nil Image means no file was
// selected.
type SubmitRequest struct {
	Filename string
	Image    io.Reader
	Caption  string
}

// PostService handles post submission: validation, image upload, and the
// store write, strictly in that order.
type PostService interface {
	Submit(ctx context.Context, session *models.Session, req SubmitRequest) (*models.Post, error)
}

// FeedService owns the live posts subscription and exposes the current
// sorted feed. Start opens the single subscription for the service's
// lifetime; Snapshot returns the latest sorted list plus a loading flag
// that is true until the first push arrives. Subscribers receive every new
// sorted list; a subscriber that falls behind is skipped, never blocked on.
type FeedService interface {
	Start(ctx context.Context) error
	Snapshot() ([]models.Post, bool)
	Subscribe() (id string, updates <-chan []models.Post)
	Unsubscribe(id string)
}

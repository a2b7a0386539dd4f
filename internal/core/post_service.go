package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"petshare-backend-go/internal/db"
	"petshare-backend-go/internal/models"
)

var (
	// ErrMissingImage is returned when no image file accompanies the submission.
	ErrMissingImage = errors.New("an image is required")
	// ErrEmptyCaption is returned when the caption is empty after trimming.
	ErrEmptyCaption = errors.New("caption cannot be empty")
	// ErrNotAuthenticated is returned when the submission has no session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUploadFailed wraps image-host failures; the store write never starts.
	ErrUploadFailed = errors.New("image upload failed")
	// ErrSubmissionInFlight is returned while a user's previous submission is
	// still being processed. Submissions are not queued.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// postService implements the PostService interface.
type postService struct {
	repo     db.PostRepository
	uploader ImageUploader
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{} // user IDs with a submission in progress

	now func() time.Time
}

// NewPostService creates a new PostService instance.
func NewPostService(repo db.PostRepository, uploader ImageUploader, logger *zap.Logger) PostService {
	return &postService{
		repo:     repo,
		uploader: uploader,
		logger:   logger,
		inFlight: make(map[string]struct{}),
		now:      time.Now,
	}
}

// Submit validates the request, uploads the image, and writes the post.
// Validation happens before any network call: a missing image or empty
// caption makes zero upload/insert calls. An upload failure aborts before
// the store write. Neither step is retried. One submission per user may be
// in flight at a time.
func (s *postService) Submit(ctx context.Context, session *models.Session, req SubmitRequest) (*models.Post, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	caption := strings.TrimSpace(req.Caption)
	if req.Image == nil {
		return nil, ErrMissingImage
	}
	if caption == "" {
		return nil, ErrEmptyCaption
	}

	if !s.acquire(session.UserID) {
		return nil, ErrSubmissionInFlight
	}
	defer s.release(session.UserID)

	imageURL, err := s.uploader.Upload(ctx, req.Filename, req.Image)
	if err != nil {
		s.logger.Warn("Post submission aborted: image upload failed",
			zap.String("userID", session.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	post := &models.Post{
		ImageURL:    imageURL,
		Caption:     caption,
		AuthorID:    session.UserID,
		AuthorEmail: session.Email,
		Timestamp:   s.now().UnixMilli(),
	}

	if _, err := s.repo.Insert(ctx, post); err != nil {
		s.logger.Error("Post submission failed: store write rejected",
			zap.String("userID", session.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	s.logger.Info("Post created",
		zap.String("postID", post.ID),
		zap.String("userID", session.UserID),
	)
	return post, nil
}

func (s *postService) acquire(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *postService) release(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

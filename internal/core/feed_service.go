package core

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"petshare-backend-go/internal/db"
	"petshare-backend-go/internal/models"
)

// ErrAlreadyStarted is returned when Start is called twice: the feed owns
// exactly one subscription for its lifetime.
var ErrAlreadyStarted = errors.New("feed service already started")

// feedService implements the FeedService interface.
//
// It consumes the repository's Watch stream and re-materializes the whole
// sorted feed on every push. The posts slice is only ever replaced
// wholesale under the mutex, never patched in place; incremental diffing is
// an intentional non-goal at this collection size.
type feedService struct {
	repo   db.PostRepository
	logger *zap.Logger

	mu      sync.RWMutex
	posts   []models.Post
	loading bool
	started bool
	subs    map[string]chan []models.Post
}

// subscriberBuffer bounds per-subscriber backlog. A full buffer means the
// subscriber is behind; it misses that update rather than stalling the feed.
const subscriberBuffer = 4

// NewFeedService creates a new FeedService instance. It reports loading
// until the first push from the store arrives.
func NewFeedService(repo db.PostRepository, logger *zap.Logger) FeedService {
	return &feedService{
		repo:    repo,
		logger:  logger,
		loading: true,
		subs:    make(map[string]chan []models.Post),
	}
}

// Start opens the posts subscription and begins consuming pushes. The
// subscription lives until ctx is cancelled. Calling Start a second time is
// an error regardless of the first subscription's fate.
func (s *feedService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	events, err := s.repo.Watch(ctx)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return err
	}

	go s.consume(events)
	return nil
}

// consume processes pushes to completion, one at a time: decode, sort,
// store, broadcast. A stream error is logged and leaves the posts at their
// last-known value; nothing propagates to the rendering layer.
func (s *feedService) consume(events <-chan db.PostsEvent) {
	for event := range events {
		if event.Err != nil {
			s.logger.Error("Feed subscription failed; keeping last-known posts", zap.Error(event.Err))
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
			continue
		}

		sorted := sortPosts(event.Posts)

		s.mu.Lock()
		s.posts = sorted
		s.loading = false
		subs := make([]chan []models.Post, 0, len(s.subs))
		for _, ch := range s.subs {
			subs = append(subs, ch)
		}
		s.mu.Unlock()

		for _, ch := range subs {
			select {
			case ch <- sorted:
			default: // subscriber is behind; skip this update
			}
		}
	}
}

// Snapshot returns the current sorted feed and whether the first push is
// still outstanding. Re-reading never creates subscriptions.
func (s *feedService) Snapshot() ([]models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := make([]models.Post, len(s.posts))
	copy(posts, s.posts)
	return posts, s.loading
}

// Subscribe registers an update channel and returns its id for Unsubscribe.
func (s *feedService) Subscribe() (string, <-chan []models.Post) {
	id := uuid.NewString()
	ch := make(chan []models.Post, subscriberBuffer)

	s.mu.Lock()
	s.subs[id] = ch
	s.mu.Unlock()

	return id, ch
}

// Unsubscribe removes and closes a subscriber's channel.
func (s *feedService) Unsubscribe(id string) {
	s.mu.Lock()
	ch, ok := s.subs[id]
	if ok {
		delete(s.subs, id)
	}
	s.mu.Unlock()

	if ok {
		close(ch)
	}
}

// sortPosts turns the keyed collection into an ordered sequence: descending
// by timestamp, ties broken ascending by id so the order is deterministic.
// An empty or absent collection yields an empty sequence.
func sortPosts(keyed map[string]models.Post) []models.Post {
	posts := make([]models.Post, 0, len(keyed))
	for id, post := range keyed {
		post.ID = id
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Timestamp != posts[j].Timestamp {
			return posts[i].Timestamp > posts[j].Timestamp
		}
		return posts[i].ID < posts[j].ID
	})
	return posts
}

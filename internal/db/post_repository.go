package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petshare-backend-go/internal/models"
)

const postsCollection = "posts"

// firestorePostRepository implements the PostRepository interface using Firestore.
type firestorePostRepository struct {
	client *firestore.Client
}

// NewFirestorePostRepository creates a new instance of firestorePostRepository.
func NewFirestorePostRepository(client *firestore.Client) PostRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PostRepository.")
	}
	return &firestorePostRepository{client: client}
}

// Insert adds a new post document to Firestore with an auto-generated ID and
// returns that ID. The post's ID field is populated before the write so the
// caller gets a fully-formed record back.
func (r *firestorePostRepository) Insert(ctx context.Context, post *models.Post) (string, error) {
	if post == nil {
		return "", errors.New("post cannot be nil for Insert operation")
	}
	docRef := r.client.Collection(postsCollection).NewDoc()
	post.ID = docRef.ID

	if _, err := docRef.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to insert post: %w", err)
	}
	return docRef.ID, nil
}

// List retrieves the entire posts collection in store order. Ordering for
// presentation is the feed service's concern, not the repository's.
func (r *firestorePostRepository) List(ctx context.Context) ([]models.Post, error) {
	iter := r.client.Collection(postsCollection).Documents(ctx)
	defer iter.Stop()

	var posts []models.Post
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate posts: %w", err)
		}

		var post models.Post
		if err := doc.DataTo(&post); err != nil {
			log.Printf("Error decoding post data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		post.ID = doc.Ref.ID
		posts = append(posts, post)
	}
	return posts, nil
}

// Watch opens a Firestore snapshot listener on the posts collection and
// re-materializes the full keyed collection on every change. The goroutine
// exits when ctx is cancelled; a terminal listener error is delivered as a
// final PostsEvent before the channel closes.
func (r *firestorePostRepository) Watch(ctx context.Context) (<-chan PostsEvent, error) {
	events := make(chan PostsEvent, 1)

	go func() {
		defer close(events)

		snapIter := r.client.Collection(postsCollection).Snapshots(ctx)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if errors.Is(err, context.Canceled) || status.Code(err) == codes.Canceled {
					return
				}
				select {
				case events <- PostsEvent{Err: fmt.Errorf("posts snapshot listener failed: %w", err)}:
				case <-ctx.Done():
				}
				return
			}

			posts := make(map[string]models.Post)
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					log.Printf("Error iterating snapshot documents: %v", err)
					break
				}
				var post models.Post
				if err := doc.DataTo(&post); err != nil {
					log.Printf("Error decoding post data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
					continue
				}
				post.ID = doc.Ref.ID
				posts[doc.Ref.ID] = post
			}

			select {
			case events <- PostsEvent{Posts: posts}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

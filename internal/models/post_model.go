package models

// Post is one user-submitted image+caption record.
//
// The ID is the Firestore document ID, assigned by the store at insert time;
// it is opaque and order-insensitive. Timestamp is milliseconds since the
// Unix epoch, assigned client-side at submission. Posts are immutable once
// written: this service never edits or deletes them.
type Post struct {
	ID          string `json:"id" firestore:"-"` // Document ID, not stored as a field
	ImageURL    string `json:"imageUrl" firestore:"imageUrl"`
	Caption     string `json:"caption" firestore:"caption"`
	AuthorID    string `json:"authorId" firestore:"authorId"`
	AuthorEmail string `json:"authorEmail" firestore:"authorEmail"`
	Timestamp   int64  `json:"timestamp" firestore:"timestamp"`
}

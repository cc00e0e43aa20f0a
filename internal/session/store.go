// Package session tracks the single in-flight upload per user. A new upload
// silently replaces any prior unfinished one; the record is removed when its
// job completes or fails.
package session

import "sync"

// UploadKind says whether the staged upload is an archive or a single file.
type UploadKind int

const (
	SingleFile UploadKind = iota
	Archive
)

// UploadRecord describes one staged upload.
type UploadRecord struct {
	Path         string // staging path on disk
	Kind         UploadKind
	OriginalName string
}

// Store is a per-user upload registry. Events for different users may
// interleave around gateway calls, so access is mutex-guarded; each
// operation is a single atomic step.
type Store struct {
	mu      sync.Mutex
	uploads map[int64]UploadRecord
}

func NewStore() *Store {
	return &Store{uploads: make(map[int64]UploadRecord)}
}

// Put records the upload for userID, overwriting any existing record.
func (s *Store) Put(userID int64, rec UploadRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[userID] = rec
}

// Get returns the current upload record for userID.
func (s *Store) Get(userID int64) (UploadRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.uploads[userID]
	return rec, ok
}

// Remove deletes the record for userID, if any.
func (s *Store) Remove(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, userID)
}

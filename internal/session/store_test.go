package session

import (
	"sync"
	"testing"
)

func TestStore_PutGetRemove(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get(1); ok {
		t.Error("expected no record for unknown user")
	}

	rec := UploadRecord{Path: "/tmp/a.srt", Kind: SingleFile, OriginalName: "a.srt"}
	s.Put(1, rec)

	got, ok := s.Get(1)
	if !ok {
		t.Fatal("expected record after Put")
	}
	if got != rec {
		t.Errorf("got %+v, want %+v", got, rec)
	}

	s.Remove(1)
	if _, ok := s.Get(1); ok {
		t.Error("expected no record after Remove")
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	s := NewStore()
	s.Put(7, UploadRecord{Path: "/tmp/old.zip", Kind: Archive, OriginalName: "old.zip"})
	s.Put(7, UploadRecord{Path: "/tmp/new.srt", Kind: SingleFile, OriginalName: "new.srt"})

	got, ok := s.Get(7)
	if !ok {
		t.Fatal("expected record")
	}
	if got.OriginalName != "new.srt" || got.Kind != SingleFile {
		t.Errorf("old record not replaced: %+v", got)
	}
}

func TestStore_UsersIndependent(t *testing.T) {
	s := NewStore()
	s.Put(1, UploadRecord{OriginalName: "one.srt"})
	s.Put(2, UploadRecord{OriginalName: "two.zip", Kind: Archive})

	s.Remove(1)

	if _, ok := s.Get(1); ok {
		t.Error("user 1 record should be gone")
	}
	if got, ok := s.Get(2); !ok || got.OriginalName != "two.zip" {
		t.Error("user 2 record must be unaffected")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Put(id, UploadRecord{OriginalName: "f"})
			s.Get(id)
			s.Remove(id)
		}(int64(i))
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		if _, ok := s.Get(i); ok {
			t.Fatalf("record for user %d not removed", i)
		}
	}
}

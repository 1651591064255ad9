package snapstore

import (
	"testing"

	"driftwatch/internal/drift"
)

func TestMemoryStore(t *testing.T) {
	t.Run("put then list round trips", func(t *testing.T) {
		s := NewMemoryStore()

		name, err := s.Put(testSnapshot("abc", 100, map[string]drift.FileRecord{
			"a.txt": {Fingerprint: "1111"},
		}))
		if err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if name != EncodeName("abc", 100) {
			t.Errorf("name = %q, want %q", name, EncodeName("abc", 100))
		}

		snapshots, err := s.List("abc")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(snapshots) != 1 {
			t.Fatalf("len(snapshots) = %d, want 1", len(snapshots))
		}
		if snapshots[0].Contents["a.txt"].Fingerprint != "1111" {
			t.Errorf("contents = %+v", snapshots[0].Contents)
		}
	})

	t.Run("list sorts by timestamp", func(t *testing.T) {
		s := NewMemoryStore()
		for _, ts := range []float64{200, 100, 300} {
			if _, err := s.Put(testSnapshot("abc", ts, nil)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
		}

		snapshots, err := s.List("abc")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i, want := range []float64{100, 200, 300} {
			if snapshots[i].Timestamp != want {
				t.Errorf("snapshots[%d].Timestamp = %v, want %v", i, snapshots[i].Timestamp, want)
			}
		}
	})

	t.Run("identifiers are isolated", func(t *testing.T) {
		s := NewMemoryStore()
		if _, err := s.Put(testSnapshot("aaa", 100, nil)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		snapshots, err := s.List("bbb")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(snapshots) != 0 {
			t.Errorf("len(snapshots) = %d, want 0", len(snapshots))
		}
	})

	t.Run("stored snapshots are detached from caller maps", func(t *testing.T) {
		s := NewMemoryStore()
		contents := map[string]drift.FileRecord{"a.txt": {Fingerprint: "1"}}
		if _, err := s.Put(testSnapshot("abc", 100, contents)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		// Mutating the original map must not alter stored history.
		contents["b.txt"] = drift.FileRecord{Fingerprint: "2"}

		snapshots, err := s.List("abc")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(snapshots[0].Contents) != 1 {
			t.Errorf("stored contents mutated: %+v", snapshots[0].Contents)
		}
	})
}

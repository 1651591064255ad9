package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilter_Includes(t *testing.T) {
	tests := []struct {
		name      string
		basenames []string
		path      string
		want      bool
	}{
		{
			name:      "basename in set is excluded",
			basenames: []string{"noise.log"},
			path:      "noise.log",
			want:      false,
		},
		{
			name:      "nested path matches on basename",
			basenames: []string{"noise.log"},
			path:      "deep/sub/dir/noise.log",
			want:      false,
		},
		{
			name:      "other files pass",
			basenames: []string{"noise.log"},
			path:      "data.txt",
			want:      true,
		},
		{
			name:      "match is on the final component only",
			basenames: []string{"noise.log"},
			path:      "noise.log/data.txt",
			want:      true,
		},
		{
			name:      "no globbing",
			basenames: []string{"*.log"},
			path:      "noise.log",
			want:      true,
		},
		{
			name:      "empty set ignores nothing",
			basenames: nil,
			path:      "anything",
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.basenames)
			if got := f.Includes(tt.path); got != tt.want {
				t.Errorf("Includes(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("skips blanks and comments", func(t *testing.T) {
		f := New([]string{"", "  ", "# comment", "real.txt", "  padded.txt  "})

		if f.Len() != 2 {
			t.Errorf("Len() = %d, want 2", f.Len())
		}
		if f.Includes("real.txt") {
			t.Error("real.txt should be ignored")
		}
		if f.Includes("padded.txt") {
			t.Error("padded.txt should be ignored after trimming")
		}
		if !f.Includes("# comment") {
			t.Error("comment lines must not become patterns")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads basenames from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ignore")
		content := "noise.log\n\n# editor droppings\n.swp\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		f, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if f.Len() != 2 {
			t.Errorf("Len() = %d, want 2", f.Len())
		}
		if f.Includes("noise.log") || f.Includes(".swp") {
			t.Error("file entries should be ignored")
		}
	})

	t.Run("missing file ignores nothing", func(t *testing.T) {
		f, err := Load(filepath.Join(t.TempDir(), "missing"), nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if f.Len() != 0 {
			t.Errorf("Len() = %d, want 0", f.Len())
		}
		if !f.Includes("anything.txt") {
			t.Error("absent ignore file must not exclude paths")
		}
	})

	t.Run("extra basenames merge with file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ignore")
		if err := os.WriteFile(path, []byte("from-file.log\n"), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		f, err := Load(path, []string{"from-config.log"})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if f.Includes("from-file.log") || f.Includes("from-config.log") {
			t.Error("both sources should contribute to the set")
		}
	})

	t.Run("unreadable file propagates error", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("running as root, permission bits are not enforced")
		}
		path := filepath.Join(t.TempDir(), "ignore")
		if err := os.WriteFile(path, []byte("x\n"), 0o000); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		if _, err := Load(path, nil); err == nil {
			t.Fatal("expected error for unreadable ignore file")
		}
	})
}

package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestSHA256_String(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "known digest",
			input: "1",
			want:  "6b86b273ff34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b",
		},
		{
			name:  "empty string",
			input: "",
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	h := NewSHA256()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.String(tt.input); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSHA256_File(t *testing.T) {
	t.Run("matches string digest of same bytes", func(t *testing.T) {
		h := NewSHA256()
		path := writeFile(t, "f.txt", "1")

		got, err := h.File(path)
		if err != nil {
			t.Fatalf("File() error = %v", err)
		}
		if want := h.String("1"); got != want {
			t.Errorf("File() = %q, want %q", got, want)
		}
	})

	t.Run("missing file propagates error", func(t *testing.T) {
		h := NewSHA256()
		if _, err := h.File(filepath.Join(t.TempDir(), "missing")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("streams content larger than one chunk", func(t *testing.T) {
		h := NewSHA256()
		big := make([]byte, chunkSize*3+17)
		for i := range big {
			big[i] = byte(i % 251)
		}
		path := writeFile(t, "big.bin", string(big))

		got, err := h.File(path)
		if err != nil {
			t.Fatalf("File() error = %v", err)
		}
		if want := h.String(string(big)); got != want {
			t.Errorf("File() = %q, want %q", got, want)
		}
	})
}

func TestXXH3(t *testing.T) {
	h := NewXXH3()

	t.Run("file and string digests agree", func(t *testing.T) {
		path := writeFile(t, "f.txt", "contents")

		got, err := h.File(path)
		if err != nil {
			t.Fatalf("File() error = %v", err)
		}
		if want := h.String("contents"); got != want {
			t.Errorf("File() = %q, want %q", got, want)
		}
	})

	t.Run("digest is 128 bits of hex", func(t *testing.T) {
		if got := len(h.String("x")); got != 32 {
			t.Errorf("digest length = %d, want 32", got)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		if h.String("a") == h.String("b") {
			t.Error("distinct inputs produced identical digests")
		}
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		wantErr   bool
	}{
		{name: "sha256", algorithm: "sha256"},
		{name: "xxh3", algorithm: "xxh3"},
		{name: "empty defaults to sha256", algorithm: ""},
		{name: "unknown algorithm", algorithm: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.algorithm)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.algorithm, err, tt.wantErr)
			}
			if !tt.wantErr && h == nil {
				t.Fatal("New() returned nil hasher")
			}
		})
	}

	t.Run("default is sha256", func(t *testing.T) {
		h, err := New("")
		if err != nil {
			t.Fatalf("New(\"\") error = %v", err)
		}
		want := "6b86b273ff34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b"
		if got := h.String("1"); got != want {
			t.Errorf("String(\"1\") = %q, want %q", got, want)
		}
	})
}

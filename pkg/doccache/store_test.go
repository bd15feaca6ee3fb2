package doccache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirStore_GetSet(t *testing.T) {
	s, err := NewDirStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewDirStore() failed: %v", err)
	}

	tests := []struct {
		name    string
		version string
		module  string
		data    string
	}{
		{"simple", "22", "fs", `{"modules":[]}`},
		{"underscored module", "22", "child_process", `{"modules":[{"name":"child_process"}]}`},
		{"other version same module", "18", "fs", `{"modules":[{"name":"fs"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(tt.version, tt.module, []byte(tt.data)); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}

			data, ok, err := s.Get(tt.version, tt.module)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned false for existing entry")
			}
			if string(data) != tt.data {
				t.Errorf("Get() = %q, want %q", data, tt.data)
			}
		})
	}
}

func TestDirStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewDirStore(dir, 0)

	if err := s.Set("22", "fs", []byte("{}")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	want := filepath.Join(dir, "22", "fs.json")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("entry not stored at %s: %v", want, err)
	}
}

func TestDirStore_Miss(t *testing.T) {
	s, _ := NewDirStore(t.TempDir(), 0)

	data, ok, err := s.Get("22", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing entry")
	}
	if data != nil {
		t.Errorf("Get() returned data %q for missing entry", data)
	}
}

func TestDirStore_VersionIsolation(t *testing.T) {
	s, _ := NewDirStore(t.TempDir(), 0)

	if err := s.Set("18", "fs", []byte("old")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Set("22", "fs", []byte("new")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	data, ok, err := s.Get("18", "fs")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}
	if string(data) != "old" {
		t.Errorf("version isolation violated: got %q", data)
	}
}

func TestDirStore_Expiration(t *testing.T) {
	s, _ := NewDirStore(t.TempDir(), 10*time.Millisecond)

	if err := s.Set("22", "fs", []byte("{}")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	_, ok, err := s.Get("22", "fs")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}

	time.Sleep(20 * time.Millisecond)

	_, ok, err = s.Get("22", "fs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for expired entry")
	}
}

func TestDirStore_RejectsUnsafeNames(t *testing.T) {
	s, _ := NewDirStore(t.TempDir(), 0)

	for _, name := range []string{"../evil", "a/b", ""} {
		if err := s.Set("22", name, []byte("{}")); err == nil {
			t.Errorf("Set(%q) succeeded, want error", name)
		}
		if _, _, err := s.Get("22", name); err == nil {
			t.Errorf("Get(%q) succeeded, want error", name)
		}
	}
}

func TestNullStore(t *testing.T) {
	s := NewNullStore()

	if err := s.Set("22", "fs", []byte("{}")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	_, ok, err := s.Get("22", "fs")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok {
		t.Error("NullStore.Get() returned a hit")
	}
}

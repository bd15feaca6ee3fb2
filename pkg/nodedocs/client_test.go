package nodedocs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"nodediff/pkg/doccache"
	"nodediff/pkg/errors"
)

const fsDoc = `{"modules":[{"name":"fs","methods":[{"name":"readFile","textRaw":"fs.readFile()","signatures":[{}]}]}]}`

func newTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/latest-v22.x/docs/api/fs.json", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fsDoc))
	})
	mux.HandleFunc("/latest-v22.x/docs/api/broken.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Module(t *testing.T) {
	srv := newTestServer(t, nil)
	store, _ := doccache.NewDirStore(t.TempDir(), 0)
	client := NewClient(store, srv.URL)

	data, err := client.Module(context.Background(), "22", "fs", false)
	if err != nil {
		t.Fatalf("Module() failed: %v", err)
	}
	if string(data) != fsDoc {
		t.Errorf("Module() = %q, want %q", data, fsDoc)
	}
}

func TestClient_ModuleCached(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	store, _ := doccache.NewDirStore(t.TempDir(), 0)
	client := NewClient(store, srv.URL)

	for i := 0; i < 3; i++ {
		if _, err := client.Module(context.Background(), "22", "fs", false); err != nil {
			t.Fatalf("Module() failed: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1 (subsequent reads from cache)", hits.Load())
	}
}

func TestClient_ModuleRefresh(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	store, _ := doccache.NewDirStore(t.TempDir(), 0)
	client := NewClient(store, srv.URL)

	if _, err := client.Module(context.Background(), "22", "fs", false); err != nil {
		t.Fatalf("Module() failed: %v", err)
	}
	if _, err := client.Module(context.Background(), "22", "fs", true); err != nil {
		t.Fatalf("Module(refresh) failed: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2 (refresh bypasses cache)", hits.Load())
	}
}

func TestClient_ModuleNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	store, _ := doccache.NewDirStore(t.TempDir(), 0)
	client := NewClient(store, srv.URL)

	_, err := client.Module(context.Background(), "22", "nosuchmodule", false)
	if !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("Module() error = %v, want MODULE_NOT_FOUND", err)
	}
}

func TestClient_ModuleServerError(t *testing.T) {
	srv := newTestServer(t, nil)
	store, _ := doccache.NewDirStore(t.TempDir(), 0)
	client := NewClient(store, srv.URL)

	_, err := client.Module(context.Background(), "22", "broken", false)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Module() error = %v, want NETWORK_ERROR", err)
	}
}

func TestClient_ModuleTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	client := NewClient(doccache.NewNullStore(), srv.URL)
	client.http.Timeout = 50 * time.Millisecond

	_, err := client.Module(context.Background(), "22", "fs", false)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("Module() error = %v, want TIMEOUT", err)
	}
}

func TestClient_ModuleRejectsUnsafeNames(t *testing.T) {
	srv := newTestServer(t, nil)
	client := NewClient(doccache.NewNullStore(), srv.URL)

	_, err := client.Module(context.Background(), "22", "../../etc/passwd", false)
	if err == nil {
		t.Error("Module() accepted a path-traversal name")
	}
}

func TestClient_Fetcher(t *testing.T) {
	srv := newTestServer(t, nil)
	client := NewClient(doccache.NewNullStore(), srv.URL)

	fetcher := client.Fetcher("22", false)
	data, err := fetcher.FetchModule(context.Background(), "fs")
	if err != nil {
		t.Fatalf("FetchModule() failed: %v", err)
	}
	if string(data) != fsDoc {
		t.Errorf("FetchModule() = %q, want %q", data, fsDoc)
	}
}

func TestClient_DefaultBaseURL(t *testing.T) {
	client := NewClient(doccache.NewNullStore(), "")
	want := "https://nodejs.org/dist/latest-v22.x/docs/api/"
	if got := client.apiURL("22"); got != want {
		t.Errorf("apiURL() = %s, want %s", got, want)
	}
}

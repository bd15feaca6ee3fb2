package nodedocs

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"nodediff/pkg/doccache"
	"nodediff/pkg/errors"
)

const indexPage = `<!DOCTYPE html>
<html>
<body>
  <ul>
    <li><a href="https://nodejs.org/">Home</a></li>
    <li><a href="index.html">Docs</a></li>
  </ul>
  <ul>
    <li><a href="documentation.html">About this documentation</a></li>
    <li><a href="assert.html">Assertion testing</a></li>
    <li><a href="fs.html">File system</a></li>
    <li><a href="child_process.html">Child processes</a></li>
    <li><a href="#fragment">Fragment link</a></li>
  </ul>
</body>
</html>`

func indexServer(t *testing.T, page string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/latest-v22.x/docs/api/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Modules(t *testing.T) {
	srv := indexServer(t, indexPage)
	client := NewClient(doccache.NewNullStore(), srv.URL)

	names, err := client.Modules("22")
	if err != nil {
		t.Fatalf("Modules() failed: %v", err)
	}

	want := []string{"assert", "fs", "child_process"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Modules() = %v, want %v", names, want)
	}
}

func TestClient_Modules_EmptyPage(t *testing.T) {
	srv := indexServer(t, "<html><body><p>nothing here</p></body></html>")
	client := NewClient(doccache.NewNullStore(), srv.URL)

	_, err := client.Modules("22")
	if err == nil {
		t.Fatal("Modules() succeeded on a page without module lists")
	}
}

func TestClient_Modules_MissingIndex(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	client := NewClient(doccache.NewNullStore(), srv.URL)

	_, err := client.Modules("99")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Modules() error = %v, want NOT_FOUND", err)
	}
}

func TestClient_Modules_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(doccache.NewNullStore(), srv.URL)

	_, err := client.Modules("22")
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Modules() error = %v, want NETWORK_ERROR", err)
	}
}

package poslib

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"goTopWords/iolib"
)

const testPTBMap = "CC\tCONJ\nCD\tNUM\nDT\tDET\nIN\tADP\nJJ\tADJ\nMD\tVERB\nNN\tNOUN\nNNS\tNOUN\nNNP\tNOUN\n" +
	"PRP\tPRON\nRB\tADV\nRP\tPRT\nTO\tPRT\nVB\tVERB\nVBD\tVERB\nVBG\tVERB\nVBN\tVERB\nVBP\tVERB\nVBZ\tVERB\n" +
	"WDT\tDET\n.\t.\n,\t.\n"

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func archiveServer(t *testing.T, status int, archive []byte) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testIndex(url string) map[string]Resource {
	return map[string]Resource{
		"averaged_perceptron_tagger": {},
		"universal_tagset": {
			Dir:   "taggers/universal_tagset",
			URL:   url,
			Files: []string{"en-ptb.map"},
		},
	}
}

// newTestStore returns a store backed by a server publishing the universal
// tagset archive.
func newTestStore(t *testing.T) (*ResourceStore, *int32) {
	t.Helper()
	archive := zipArchive(t, map[string]string{
		"universal_tagset/en-ptb.map": testPTBMap,
		"universal_tagset/README":     "universal tagset",
	})
	srv, hits := archiveServer(t, http.StatusOK, archive)
	s, err := NewResourceStore(StoreOptions{
		DataDir:   t.TempDir(),
		Resources: []string{"averaged_perceptron_tagger", "universal_tagset"},
		Index:     testIndex(srv.URL),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, hits
}

func TestNewResourceStoreNeedsDataDir(t *testing.T) {
	if _, err := NewResourceStore(StoreOptions{}); !errors.Is(err, iolib.ErrPathInvalid) {
		t.Fatalf("expect path invalid, got %v", err)
	}
}

func TestFind(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Find("averaged_perceptron_tagger"); err != nil {
		t.Fatalf("builtin resource not found: %v", err)
	}
	if err := s.Find("universal_tagset"); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expect not found, got %v", err)
	}
	if err := s.Find("wordnet"); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expect unknown resource, got %v", err)
	}
}

func TestEnsureResourcesAvailableIdempotent(t *testing.T) {
	s, hits := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureResourcesAvailable(ctx); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := s.Find("universal_tagset"); err != nil {
		t.Fatalf("resource missing after ensure: %v", err)
	}
	if err := s.EnsureResourcesAvailable(ctx); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Fatalf("expect a single download, got %d", n)
	}

	p, _ := s.Path("universal_tagset", "en-ptb.map")
	b, err := os.ReadFile(p)
	if err != nil || string(b) != testPTBMap {
		t.Fatalf("unexpected extracted file %v %q", err, string(b))
	}
}

func TestEnsureResourcesUnknownName(t *testing.T) {
	s, err := NewResourceStore(StoreOptions{DataDir: t.TempDir(), Resources: []string{"wordnet"}})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.EnsureResourcesAvailable(context.Background()); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expect unknown resource, got %v", err)
	}
}

func TestDownloadNotFound(t *testing.T) {
	srv, _ := archiveServer(t, http.StatusNotFound, nil)
	s, _ := NewResourceStore(StoreOptions{DataDir: t.TempDir(), Index: testIndex(srv.URL)})
	if err := s.Download(context.Background(), "universal_tagset"); err == nil {
		t.Fatalf("expect error on 404")
	}
}

func TestDownloadIncompleteArchive(t *testing.T) {
	archive := zipArchive(t, map[string]string{"universal_tagset/README": "x"})
	srv, _ := archiveServer(t, http.StatusOK, archive)
	s, _ := NewResourceStore(StoreOptions{DataDir: t.TempDir(), Index: testIndex(srv.URL)})
	if err := s.Download(context.Background(), "universal_tagset"); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expect incomplete archive error, got %v", err)
	}
}

func TestDownloadRejectsEscapingEntries(t *testing.T) {
	archive := zipArchive(t, map[string]string{"../../evil.map": "x"})
	srv, _ := archiveServer(t, http.StatusOK, archive)
	dir := t.TempDir()
	s, _ := NewResourceStore(StoreOptions{DataDir: filepath.Join(dir, "data"), Index: testIndex(srv.URL)})

	err := s.Download(context.Background(), "universal_tagset")
	if !errors.Is(err, iolib.ErrPathInvalid) {
		t.Fatalf("expect path invalid, got %v", err)
	}
	if iolib.FileExists(filepath.Join(dir, "evil.map")) {
		t.Fatalf("archive entry escaped the data dir")
	}
}

type countingTransport struct {
	calls int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return http.DefaultTransport.RoundTrip(req)
}

func TestDownloadUsesGivenClient(t *testing.T) {
	archive := zipArchive(t, map[string]string{"universal_tagset/en-ptb.map": testPTBMap})
	srv, _ := archiveServer(t, http.StatusOK, archive)
	tr := &countingTransport{}

	s, err := NewResourceStore(StoreOptions{
		DataDir:   t.TempDir(),
		Resources: []string{"universal_tagset"},
		Index:     testIndex(srv.URL),
		Client:    &http.Client{Transport: tr},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.EnsureResourcesAvailable(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if n := atomic.LoadInt32(&tr.calls); n != 1 {
		t.Fatalf("expect the download through the given client, got %d calls", n)
	}
}

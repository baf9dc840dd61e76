package poslib

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"goTopWords/iolib"
)

var (
	// ErrResourceNotFound: a known resource is not present in the data dir.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrUnknownResource: the name is not part of the resource index.
	ErrUnknownResource = errors.New("unknown resource")
)

// Resource describes a tagger resource and where to get it.
type Resource struct {
	// Dir is the resource directory relative to the data dir. The archive
	// is extracted into its parent, so its entries start with the last
	// element of Dir.
	Dir string
	// URL of the zip archive. Empty for resources compiled into the binary.
	URL string
	// Files that must exist under Dir.
	Files []string
}

// Builtin reports whether the resource ships with the binary
func (r Resource) Builtin() bool { return r.URL == "" }

// DefaultIndex lists the resources the prose tagger can use. The
// perceptron model is embedded in prose; the universal tagset table comes
// from the public nltk_data repository.
var DefaultIndex = map[string]Resource{
	"averaged_perceptron_tagger": {},
	"universal_tagset": {
		Dir:   "taggers/universal_tagset",
		URL:   "https://raw.githubusercontent.com/nltk/nltk_data/gh-pages/packages/taggers/universal_tagset.zip",
		Files: []string{"en-ptb.map"},
	},
}

// StoreOptions configures a ResourceStore
type StoreOptions struct {
	DataDir   string
	Resources []string
	// Index defaults to DefaultIndex.
	Index  map[string]Resource
	Client *http.Client
	Logger *zap.SugaredLogger
}

// ResourceStore keeps tagger resources under a local data directory
type ResourceStore struct {
	dataDir   string
	resources []string
	index     map[string]Resource
	client    *http.Client
	logger    *zap.SugaredLogger
}

var _ Provisioner = (*ResourceStore)(nil)

// NewResourceStore creates a store rooted at opts.DataDir
func NewResourceStore(opts StoreOptions) (*ResourceStore, error) {
	if strings.TrimSpace(opts.DataDir) == "" {
		return nil, fmt.Errorf("resource store: %w", iolib.ErrPathInvalid)
	}
	s := &ResourceStore{
		dataDir:   opts.DataDir,
		resources: opts.Resources,
		index:     opts.Index,
		client:    opts.Client,
		logger:    opts.Logger,
	}
	if s.index == nil {
		s.index = DefaultIndex
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return s, nil
}

// Path returns the local path of file inside resource name
func (s *ResourceStore) Path(name, file string) (string, error) {
	res, ok := s.index[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	return filepath.Join(s.dataDir, filepath.FromSlash(res.Dir), filepath.FromSlash(file)), nil
}

// Find checks that every file of resource name is present
func (s *ResourceStore) Find(name string) error {
	res, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	if res.Builtin() {
		return nil
	}
	for _, f := range res.Files {
		p, _ := s.Path(name, f)
		if !iolib.FileExists(p) {
			return fmt.Errorf("%w: %s (%s)", ErrResourceNotFound, name, p)
		}
	}
	return nil
}

// Download fetches the archive of resource name and extracts it into the
// data directory.
func (s *ResourceStore) Download(ctx context.Context, name string) error {
	res, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	if res.Builtin() {
		return nil
	}
	s.logger.Infow("downloading resource", "name", name, "url", res.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download %s: unexpected status %s", name, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}

	base := filepath.Join(s.dataDir, filepath.FromSlash(path.Dir(res.Dir)))
	if err := extractZip(b, base); err != nil {
		return fmt.Errorf("extract %s: %w", name, err)
	}
	if err := s.Find(name); err != nil {
		return fmt.Errorf("archive of %s is incomplete: %w", name, err)
	}
	return nil
}

// EnsureResourcesAvailable downloads each configured resource that Find
// reports as missing.
func (s *ResourceStore) EnsureResourcesAvailable(ctx context.Context) error {
	for _, name := range s.resources {
		err := s.Find(name)
		if err == nil {
			s.logger.Debugw("resource present", "name", name)
			continue
		}
		if !errors.Is(err, ErrResourceNotFound) {
			return err
		}
		if err := s.Download(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// extractZip writes the regular files of archive b under base, rejecting
// entries that would land outside of it.
func extractZip(b []byte, base string) error {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return err
	}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		rel := filepath.Clean(filepath.FromSlash(zf.Name))
		if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("%w: %s", iolib.ErrPathInvalid, zf.Name)
		}

		rc, err := zf.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
		if err := iolib.WriteFileAtomic(filepath.Join(base, rel), data, 0644); err != nil {
			return err
		}
	}
	return nil
}

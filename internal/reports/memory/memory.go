package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	ports "playstats/internal/reports"
)

// ErrObjectNotFound is returned by ReadObject for unknown names.
var ErrObjectNotFound = errors.New("object not found")

// Store keeps bucket objects in memory. It backs offline runs and tests.
type Store struct {
	mu      sync.Mutex
	buckets map[string]map[string][]byte
	reads   int
}

var _ ports.Store = (*Store)(nil)

func New() *Store {
	return &Store{buckets: map[string]map[string][]byte{}}
}

// NewFromDir loads a local mirror of one or more buckets laid out as
// <root>/<bucket>/<object name>, e.g. the result of
// `gsutil -m cp -r gs://<bucket>/stats <root>/<bucket>/`.
func NewFromDir(root string) (*Store, error) {
	s := New()
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		bucket := e.Name()
		base := filepath.Join(root, bucket)
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			s.Put(bucket, filepath.ToSlash(rel), data)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load bucket %s: %w", bucket, err)
		}
	}
	return s, nil
}

// Put stores data under bucket/name, replacing any previous content.
func (s *Store) Put(bucket, name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	objs, ok := s.buckets[bucket]
	if !ok {
		objs = map[string][]byte{}
		s.buckets[bucket] = objs
	}
	objs[name] = append([]byte(nil), data...)
}

// ListObjects implements ports.ObjectLister. Names are returned sorted, as GCS does.
func (s *Store) ListObjects(_ context.Context, bucket, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	objs, ok := s.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}
	var out []string
	for name := range objs {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ReadObject implements ports.ObjectReader.
func (s *Store) ReadObject(_ context.Context, bucket, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	data, ok := s.buckets[bucket][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, name)
	}
	return append([]byte(nil), data...), nil
}

// Reads returns how many ReadObject calls the store has served.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

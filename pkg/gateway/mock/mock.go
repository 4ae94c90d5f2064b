package mock

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foomo/snapstore/pkg/gateway"
)

type object struct {
	data    []byte
	updated time.Time
}

// Store is a deterministic in-memory gateway.ObjectStore for tests.
// Failures can be scripted per operation to exercise retry behavior.
type Store struct {
	mu       sync.Mutex
	objects  map[string]object
	failures map[string][]error
	calls    map[string]int
	now      func() time.Time
}

// NewStore returns an empty in-memory object store.
func NewStore() *Store {
	return &Store{
		objects:  map[string]object{},
		failures: map[string][]error{},
		calls:    map[string]int{},
		now:      time.Now,
	}
}

// FailNext queues errors that the named operation ("list", "info", "read",
// "write", "delete") will return, one per call, before succeeding again.
func (s *Store) FailNext(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], errs...)
}

// Calls returns how often the named operation was invoked.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// SetNow replaces the clock used to stamp written objects.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetUpdated backdates the modification time of an existing object.
func (s *Store) SetUpdated(name string, updated time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj, ok := s.objects[name]; ok {
		obj.updated = updated
		s.objects[name] = obj
	}
}

// Names returns all stored object names, sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) pop(op string) error {
	s.calls[op]++
	if queued := s.failures[op]; len(queued) > 0 {
		err := queued[0]
		s.failures[op] = queued[1:]
		return err
	}
	return nil
}

func (s *Store) ListPage(_ context.Context, prefix string, pageToken []byte, pageSize int) ([]gateway.Entry, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pop("list"); err != nil {
		return nil, nil, err
	}

	// tokens carry the last returned name so that pages stay stable while
	// earlier objects are deleted concurrently
	after := string(pageToken)

	var names []string
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) && name > after {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	end := pageSize
	if end > len(names) {
		end = len(names)
	}

	entries := make([]gateway.Entry, 0, end)
	for _, name := range names[:end] {
		obj := s.objects[name]
		entries = append(entries, gateway.Entry{
			Name:    name,
			Updated: obj.updated,
			Size:    int64(len(obj.data)),
		})
	}

	var nextToken []byte
	if end < len(names) {
		nextToken = []byte(names[end-1])
	}
	return entries, nextToken, nil
}

func (s *Store) Info(_ context.Context, name string) (gateway.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pop("info"); err != nil {
		return gateway.ObjectInfo{}, err
	}
	obj, ok := s.objects[name]
	if !ok {
		return gateway.ObjectInfo{}, os.ErrNotExist
	}
	return gateway.ObjectInfo{
		Name:    name,
		Updated: obj.updated,
		Size:    int64(len(obj.data)),
	}, nil
}

func (s *Store) Read(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pop("read"); err != nil {
		return nil, err
	}
	obj, ok := s.objects[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

func (s *Store) Write(_ context.Context, name string, data []byte, _ *gateway.WriteOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pop("write"); err != nil {
		return err
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[name] = object{
		data:    stored,
		updated: s.now(),
	}
	return nil
}

func (s *Store) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pop("delete"); err != nil {
		return false, err
	}
	if _, ok := s.objects[name]; !ok {
		return false, nil
	}
	delete(s.objects, name)
	return true, nil
}

func (s *Store) Close() error {
	return nil
}

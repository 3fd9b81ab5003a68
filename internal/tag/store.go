package tag

import (
	"sync"
)

// DefaultFile is the tags file name used when no path is configured.
const DefaultFile = "tags.json"

// Store is the durable tag mapping. Every operation reloads the file, so
// edits made outside the process are always observed. The store also keeps
// a mirror of the last mapping it read or wrote, which serves autocomplete
// without touching the disk.
type Store struct {
	path string

	mu     sync.RWMutex
	mirror *Tags
}

// NewStore returns a store backed by the JSON file at path. The file need
// not exist yet.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		mirror: NewTags(),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the current mapping from disk and refreshes the mirror.
func (s *Store) Load() (*Tags, error) {
	tags, err := ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	s.setMirror(tags)
	return tags, nil
}

// Refresh reloads the mirror from disk. On error the previous mirror is kept.
func (s *Store) Refresh() error {
	_, err := s.Load()
	return err
}

// Get looks up a tag case-insensitively. The returned name carries the
// stored casing.
func (s *Store) Get(name string) (Tag, error) {
	tags, err := s.Load()
	if err != nil {
		return Tag{}, err
	}
	t, ok := tags.Lookup(name)
	if !ok {
		return Tag{}, ErrNotFound
	}
	return t, nil
}

// Create adds a tag and persists the full mapping. Blank attachment URLs
// are dropped before validation.
func (s *Store) Create(name string, rec Record) (Tag, error) {
	rec = rec.Compact()
	if rec.Empty() {
		return Tag{}, ErrInvalidTag
	}

	tags, err := s.Load()
	if err != nil {
		return Tag{}, err
	}
	if err := tags.Insert(name, rec); err != nil {
		return Tag{}, err
	}
	if err := s.persist(tags); err != nil {
		return Tag{}, err
	}
	return Tag{Name: name, Record: rec}, nil
}

// Delete removes the tag matching name case-insensitively and persists the
// full mapping. The returned tag carries the stored casing.
func (s *Store) Delete(name string) (Tag, error) {
	tags, err := s.Load()
	if err != nil {
		return Tag{}, err
	}
	removed, err := tags.Remove(name)
	if err != nil {
		return Tag{}, err
	}
	if err := s.persist(tags); err != nil {
		return Tag{}, err
	}
	return removed, nil
}

// List returns every stored name in file order.
func (s *Store) List() ([]string, error) {
	tags, err := s.Load()
	if err != nil {
		return nil, err
	}
	return tags.Names(), nil
}

// Check validates the backing file and returns the number of tags in it.
func (s *Store) Check() (int, error) {
	tags, err := s.Load()
	if err != nil {
		return 0, err
	}
	return tags.Len(), nil
}

// Suggest runs Search over the mirror.
func (s *Store) Suggest(query string, limit int) []string {
	return Search(s.MirrorNames(), query, limit)
}

// MirrorNames returns the names held in the mirror.
func (s *Store) MirrorNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mirror.Names()
}

func (s *Store) persist(tags *Tags) error {
	if err := WriteFile(s.path, tags); err != nil {
		return err
	}
	s.setMirror(tags)
	return nil
}

func (s *Store) setMirror(tags *Tags) {
	snapshot := tags.Clone()
	s.mu.Lock()
	s.mirror = snapshot
	s.mu.Unlock()
}

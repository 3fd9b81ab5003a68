// Package tag implements the tag store: named text/attachment snippets kept
// in a single JSON file, looked up case-insensitively.
package tag

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel errors returned by Store operations.
var (
	// ErrInvalidTag is returned when a tag has neither content nor attachments.
	ErrInvalidTag = errors.New("tag must have content or an attachment")

	// ErrDuplicateTag is returned when a tag name collides with an existing
	// name under case-insensitive comparison.
	ErrDuplicateTag = errors.New("tag already exists")

	// ErrNotFound is returned when no stored name folds to the requested name.
	ErrNotFound = errors.New("tag not found")
)

// StorageCorruptError reports a tags file that exists but cannot be parsed.
type StorageCorruptError struct {
	Path string
	Err  error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("tags file %s is corrupt: %v", e.Path, e.Err)
}

func (e *StorageCorruptError) Unwrap() error {
	return e.Err
}

// IsCorrupt reports whether err is (or wraps) a StorageCorruptError.
func IsCorrupt(err error) bool {
	var corrupt *StorageCorruptError
	return errors.As(err, &corrupt)
}

// Record is the stored value of a tag.
type Record struct {
	Content     string   `json:"content,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// Empty reports whether the record has neither content nor attachments.
func (r Record) Empty() bool {
	return r.Content == "" && len(r.Attachments) == 0
}

// Compact returns a copy of r without blank attachment URLs.
func (r Record) Compact() Record {
	out := Record{Content: r.Content}
	for _, url := range r.Attachments {
		if strings.TrimSpace(url) != "" {
			out.Attachments = append(out.Attachments, url)
		}
	}
	return out
}

// Tag pairs a stored name (original casing) with its record.
type Tag struct {
	Name string `json:"name"`
	Record
}

// Fold returns the comparison form of a tag name: full Unicode lowercasing,
// so a word-final capital sigma folds to ς.
func Fold(name string) string {
	return cases.Lower(language.Und).String(name)
}

// Tags is an ordered mapping from tag name to record. Names keep their
// original casing and their order of insertion; uniqueness is enforced on
// the folded form.
type Tags struct {
	names   []string
	records map[string]Record
	folded  map[string]string // folded name -> stored name
}

// NewTags returns an empty mapping.
func NewTags() *Tags {
	return &Tags{
		records: make(map[string]Record),
		folded:  make(map[string]string),
	}
}

// Len returns the number of tags.
func (t *Tags) Len() int {
	return len(t.names)
}

// Names returns the stored names in insertion order.
func (t *Tags) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Lookup finds a tag whose name folds to the same value as name.
func (t *Tags) Lookup(name string) (Tag, bool) {
	stored, ok := t.folded[Fold(name)]
	if !ok {
		return Tag{}, false
	}
	return Tag{Name: stored, Record: t.records[stored]}, true
}

// Insert adds a tag. It returns ErrDuplicateTag if a name with the same
// folded form already exists.
func (t *Tags) Insert(name string, rec Record) error {
	key := Fold(name)
	if _, exists := t.folded[key]; exists {
		return ErrDuplicateTag
	}
	t.names = append(t.names, name)
	t.records[name] = rec
	t.folded[key] = name
	return nil
}

// Remove deletes the tag matching name case-insensitively and returns it.
func (t *Tags) Remove(name string) (Tag, error) {
	found, ok := t.Lookup(name)
	if !ok {
		return Tag{}, ErrNotFound
	}
	delete(t.records, found.Name)
	delete(t.folded, Fold(found.Name))
	for i, n := range t.names {
		if n == found.Name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
	return found, nil
}

// Clone returns a deep copy.
func (t *Tags) Clone() *Tags {
	c := NewTags()
	for _, name := range t.names {
		rec := t.records[name]
		if rec.Attachments != nil {
			rec.Attachments = append([]string(nil), rec.Attachments...)
		}
		c.names = append(c.names, name)
		c.records[name] = rec
		c.folded[Fold(name)] = name
	}
	return c
}

// All returns every tag in insertion order.
func (t *Tags) All() []Tag {
	out := make([]Tag, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, Tag{Name: name, Record: t.records[name]})
	}
	return out
}

package tag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileIndent is the indentation used when writing the tags file.
const FileIndent = "   "

// ReadFile loads the tags file at path. A missing file yields an empty
// mapping; a file that cannot be parsed yields a *StorageCorruptError.
func ReadFile(path string) (*Tags, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTags(), nil
		}
		return nil, fmt.Errorf("reading tags file: %w", err)
	}

	tags, err := decodeTags(data)
	if err != nil {
		return nil, &StorageCorruptError{Path: path, Err: err}
	}
	return tags, nil
}

// WriteFile replaces the tags file at path with the full mapping.
// Uses temp file + rename so readers never see a partial file.
func WriteFile(path string, tags *Tags) error {
	data, err := encodeTags(tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating tags directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting temp file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// decodeTags parses a top-level JSON object, keeping key order.
func decodeTags(data []byte) (*Tags, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading top-level value: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("top-level value is not an object")
	}

	tags := NewTags()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading tag name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("reading tag %q: %w", name, err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing tag %q: %w", name, err)
		}
		if err := tags.Insert(name, rec); err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading end of object: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level object")
	}

	return tags, nil
}

func decodeRecord(raw json.RawMessage) (Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, errors.New("value is not an object")
	}
	var rec Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// encodeTags serializes the mapping in insertion order. Empty fields are
// omitted rather than written as null.
func encodeTags(tags *Tags) ([]byte, error) {
	var compact bytes.Buffer
	enc := json.NewEncoder(&compact)
	enc.SetEscapeHTML(false)

	compact.WriteByte('{')
	for i, t := range tags.All() {
		if i > 0 {
			compact.WriteByte(',')
		}
		if err := enc.Encode(t.Name); err != nil {
			return nil, err
		}
		compact.WriteByte(':')
		if err := enc.Encode(t.Record); err != nil {
			return nil, fmt.Errorf("tag %q: %w", t.Name, err)
		}
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", FileIndent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// TitleIndex maps normalized titles to catalog identifiers.
// It is read-only after construction and safe for concurrent use.
type TitleIndex struct {
	entries map[string]string
}

// LoadTitleIndex builds a TitleIndex from the title artifact: one JSON
// object mapping title strings to identifiers. Keys are re-normalized
// defensively regardless of whether the batch job pre-normalized them.
//
// The object is streamed in file order so that a duplicate normalized key
// deterministically resolves to the last occurrence.
func LoadTitleIndex(path string) (*TitleIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("title index %s: %w", path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("title index %s: expected JSON object, got %v", path, tok)
	}

	entries := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("title index %s: %w", path, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("title index %s: non-string key %v", path, tok)
		}

		var id string
		if err := dec.Decode(&id); err != nil {
			return nil, fmt.Errorf("title index %s: value for %q: %w", path, key, err)
		}

		if norm := Normalize(key); norm != "" {
			entries[norm] = id
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("title index %s: %w", path, err)
	}

	return &TitleIndex{entries: entries}, nil
}

// Lookup returns the identifier for a normalized title key.
// The empty key never matches.
func (ti *TitleIndex) Lookup(normalized string) (string, bool) {
	if normalized == "" {
		return "", false
	}
	id, ok := ti.entries[normalized]
	return id, ok
}

// Len returns the number of distinct normalized titles.
func (ti *TitleIndex) Len() int {
	return len(ti.entries)
}

package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/yourusername/blogjson/internal/blog"
)

var (
	// ErrMissingField is wrapped by decode errors for absent or null fields.
	ErrMissingField = errors.New("missing required field")
	// ErrDuplicateField is wrapped by decode errors for keys repeated within one object.
	ErrDuplicateField = errors.New("duplicate field")
)

// object is one decoded JSON object. Keys are matched exactly, so "Title"
// never stands in for "title".
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func decode(data []byte) (*blog.Blog, error) {
	root, err := decodeObject(data, "")
	if err != nil {
		return nil, err
	}
	if err := checkDuplicateKeys(data); err != nil {
		return nil, err
	}

	var rawEntries []json.RawMessage
	if err := root.field("blogEntries", &rawEntries); err != nil {
		return nil, err
	}
	var nextID uint32
	if err := root.field("nextId", &nextID); err != nil {
		return nil, err
	}

	entries := make([]blog.Entry, 0, len(rawEntries))
	for i, raw := range rawEntries {
		entry, err := decodeEntry(raw, fmt.Sprintf("blogEntries[%d]", i))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return &blog.Blog{
		BlogEntries: entries,
		NextID:      nextID,
	}, nil
}

func decodeEntry(data json.RawMessage, path string) (blog.Entry, error) {
	obj, err := decodeObject(data, path)
	if err != nil {
		return blog.Entry{}, err
	}

	var entry blog.Entry
	if err := obj.field("id", &entry.ID); err != nil {
		return blog.Entry{}, err
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"urlFriendlyId", &entry.URLFriendlyID},
		{"title", &entry.Title},
		{"description", &entry.Description},
		{"body", &entry.Body},
		{"blogSection", &entry.BlogSection},
		{"createdOn", &entry.CreatedOn},
		{"modifiedOn", &entry.ModifiedOn},
	}
	for _, f := range fields {
		if err := obj.field(f.key, f.dst); err != nil {
			return blog.Entry{}, err
		}
	}

	var rawCategories []json.RawMessage
	if err := obj.field("categories", &rawCategories); err != nil {
		return blog.Entry{}, err
	}
	entry.Categories = make([]blog.Category, 0, len(rawCategories))
	for j, raw := range rawCategories {
		cat, err := decodeObject(raw, fmt.Sprintf("%s.categories[%d]", path, j))
		if err != nil {
			return blog.Entry{}, err
		}
		var name string
		if err := cat.field("name", &name); err != nil {
			return blog.Entry{}, err
		}
		entry.Categories = append(entry.Categories, blog.NewCategory(name))
	}

	return entry, nil
}

// decodeObject splits data into its raw members. JSON null yields an object
// with no fields, so every required lookup on it reports a missing field.
func decodeObject(data []byte, path string) (object, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		if path == "" {
			return object{}, err
		}
		return object{}, fmt.Errorf("%s: %w", path, err)
	}
	return object{path: path, fields: fields}, nil
}

// field decodes the member stored under exactly key into dst.
func (o object) field(key string, dst any) error {
	name := key
	if o.path != "" {
		name = o.path + "." + key
	}

	raw, ok := o.fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("%s: %w", name, ErrMissingField)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// checkDuplicateKeys walks the token stream of an already well-formed
// document and rejects any object that repeats a key.
func checkDuplicateKeys(data []byte) error {
	type frame struct {
		object    bool
		expectKey bool
		keys      map[string]bool
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var stack []*frame
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var top *frame
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}

		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				if top != nil && top.object {
					top.expectKey = true
				}
				stack = append(stack, &frame{
					object:    delim == '{',
					expectKey: delim == '{',
					keys:      map[string]bool{},
				})
			case '}', ']':
				stack = stack[:len(stack)-1]
			}
			continue
		}

		if top == nil || !top.object {
			continue
		}
		if top.expectKey {
			key, _ := tok.(string)
			if top.keys[key] {
				return fmt.Errorf("%q: %w", key, ErrDuplicateField)
			}
			top.keys[key] = true
			top.expectKey = false
			continue
		}
		top.expectKey = true
	}
}

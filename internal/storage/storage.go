// Package storage loads a blog from its JSON document and serializes it back
// to a writer.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/yourusername/blogjson/internal/blog"
)

// JSONStore reads a blog document from a JSON file. It never writes the file.
type JSONStore struct {
	filepath string
	strict   bool
	logger   *slog.Logger
}

// NewJSONStore creates a new JSON store at the specified file path.
func NewJSONStore(filepath string) *JSONStore {
	return &JSONStore{
		filepath: filepath,
		logger:   slog.Default().With("component", "storage.json_store"),
	}
}

// NewJSONStoreWithLogger creates a new JSON store with a custom logger.
func NewJSONStoreWithLogger(filepath string, logger *slog.Logger) *JSONStore {
	return &JSONStore{
		filepath: filepath,
		logger:   logger.With("component", "storage.json_store"),
	}
}

// SetStrict makes Load run blog.Validate after decoding.
func (s *JSONStore) SetStrict(strict bool) {
	s.strict = strict
}

// Path returns the file the store reads from.
func (s *JSONStore) Path() string {
	return s.filepath
}

// Load reads the whole file and decodes it. It returns an *IOError when the
// file cannot be read and a *ParseError when the content is not a valid blog
// document. No partial blog is returned with an error.
func (s *JSONStore) Load() (*blog.Blog, error) {
	logger := s.logger.With("path", s.filepath, "strict", s.strict)
	logger.Debug("Loading blog document")

	// #nosec G304 -- path is provided by the user as the data file
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		logger.Error("Failed to read blog document", "error", err)
		return nil, &IOError{Path: s.filepath, Err: err}
	}

	b, err := decode(data)
	if err != nil {
		logger.Error("Failed to parse blog document", "error", err)
		return nil, &ParseError{Path: s.filepath, Err: err}
	}

	if s.strict {
		if err := b.Validate(); err != nil {
			logger.Error("Blog document failed validation", "error", err)
			return nil, &ParseError{Path: s.filepath, Err: err}
		}
	}

	logger.Info("Loaded blog document",
		"entries", b.Len(),
		"next_id", b.NextID)
	return b, nil
}

// Decode parses a blog document from r. Errors are returned unwrapped so the
// caller can attach its own context.
func Decode(r io.Reader) (*blog.Blog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Encode writes b as an indented JSON document followed by a newline.
// Markup in bodies is written as-is and nil lists are written as [].
func Encode(w io.Writer, b *blog.Blog) error {
	out := blog.Blog{
		BlogEntries: make([]blog.Entry, 0, b.Len()),
		NextID:      b.NextID,
	}
	for _, entry := range b.BlogEntries {
		if entry.Categories == nil {
			entry.Categories = []blog.Category{}
		}
		out.BlogEntries = append(out.BlogEntries, entry)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode blog: %w", err)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

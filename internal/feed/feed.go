// Package feed builds RSS, Atom and JSON feeds from blog entries.
package feed

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gorilla/feeds"

	"github.com/yourusername/blogjson/internal/blog"
	"github.com/yourusername/blogjson/internal/render"
)

// ErrUnknownFormat is returned by Write for formats other than rss, atom and json.
var ErrUnknownFormat = errors.New("unknown feed format")

// Options describes the feed itself.
type Options struct {
	Title       string
	Link        string // Base URL without trailing slash
	Description string
	Author      string
	Email       string
	Limit       int // 0 means no limit
}

// Build creates a feed with one item per entry, in the given order. Entry
// dates that do not parse are left zero.
func Build(entries []blog.Entry, opts Options, r *render.Renderer) *feeds.Feed {
	return BuildWithLogger(entries, opts, r, slog.Default())
}

// BuildWithLogger is Build with a custom logger.
func BuildWithLogger(entries []blog.Entry, opts Options, r *render.Renderer, logger *slog.Logger) *feeds.Feed {
	logger = logger.With("component", "feed.builder")

	f := &feeds.Feed{
		Title:       opts.Title,
		Link:        &feeds.Link{Href: opts.Link},
		Description: opts.Description,
		Created:     time.Now(),
	}
	if opts.Author != "" || opts.Email != "" {
		f.Author = &feeds.Author{Name: opts.Author, Email: opts.Email}
	}

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}

	for _, entry := range entries {
		link := opts.Link + "/" + entry.URLFriendlyID

		content, err := r.Render(entry.Body)
		if err != nil {
			logger.Warn("Failed to render entry body, using description only",
				"id", entry.ID,
				"error", err)
			content = ""
		}

		f.Items = append(f.Items, &feeds.Item{
			Id:          link,
			Title:       entry.Title,
			Link:        &feeds.Link{Href: link},
			Description: entry.Description,
			Content:     content,
			Created:     parseDate(logger, entry.ID, "createdOn", entry.CreatedOn),
			Updated:     parseDate(logger, entry.ID, "modifiedOn", entry.ModifiedOn),
		})
	}

	if len(f.Items) > 0 && !f.Items[0].Created.IsZero() {
		f.Created = f.Items[0].Created
	}

	return f
}

// Write serializes f to w in the named format.
func Write(w io.Writer, f *feeds.Feed, format string) error {
	switch format {
	case "rss":
		return f.WriteRss(w)
	case "atom":
		return f.WriteAtom(w)
	case "json":
		return f.WriteJSON(w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func parseDate(logger *slog.Logger, id uint32, field, value string) time.Time {
	t, err := time.Parse(blog.DateLayout, value)
	if err != nil {
		logger.Debug("Unparsable entry date", "id", id, "field", field, "value", value)
		return time.Time{}
	}
	return t
}

// Package blog holds the in-memory blog model: entries, categories and the
// collection that assigns identifiers to new entries.
package blog

import (
	"slices"
	"time"
)

// DefaultSection is the section assigned to every new entry.
const DefaultSection = "Main"

// DateLayout is the textual form of CreatedOn and ModifiedOn.
const DateLayout = "2006-01-02"

// Blog is an ordered collection of entries plus the next identifier to hand out.
// It has no internal locking; callers sharing a Blog must serialize access.
type Blog struct {
	BlogEntries []Entry `json:"blogEntries"`
	NextID      uint32  `json:"nextId"`

	now func() time.Time
}

// Entry represents a single blog post.
type Entry struct {
	ID            uint32     `json:"id"`
	URLFriendlyID string     `json:"urlFriendlyId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Body          string     `json:"body"`
	BlogSection   string     `json:"blogSection"`
	CreatedOn     string     `json:"createdOn"`
	ModifiedOn    string     `json:"modifiedOn"`
	Categories    []Category `json:"categories"`
}

// Category is a free-form tag attached to an entry.
type Category struct {
	Name string `json:"name"`
}

// NewCategory creates a category with the given name.
func NewCategory(name string) Category {
	return Category{Name: name}
}

// Categories builds a category list from plain names.
func Categories(names ...string) []Category {
	out := make([]Category, 0, len(names))
	for _, name := range names {
		out = append(out, NewCategory(name))
	}
	return out
}

// Len returns the number of entries.
func (b *Blog) Len() int {
	return len(b.BlogEntries)
}

// NewEntry creates an entry with the current NextID, stamps today's date,
// advances NextID and puts the entry first. No slug check is made.
func (b *Blog) NewEntry(urlFriendlyID, title, description, body string, categories []Category) Entry {
	today := b.today()

	cats := make([]Category, len(categories))
	copy(cats, categories)

	entry := Entry{
		ID:            b.NextID,
		URLFriendlyID: urlFriendlyID,
		Title:         title,
		Description:   description,
		Body:          body,
		BlogSection:   DefaultSection,
		CreatedOn:     today,
		ModifiedOn:    today,
		Categories:    cats,
	}
	b.NextID++

	b.BlogEntries = slices.Insert(b.BlogEntries, 0, entry)
	return entry
}

// DeleteEntry removes every entry with the given id and reports how many
// were removed. Unknown ids are a no-op.
func (b *Blog) DeleteEntry(id uint32) int {
	before := len(b.BlogEntries)
	b.BlogEntries = slices.DeleteFunc(b.BlogEntries, func(e Entry) bool {
		return e.ID == id
	})
	return before - len(b.BlogEntries)
}

// FindByURL returns the first entry whose slug matches exactly.
func (b *Blog) FindByURL(urlFriendlyID string) (Entry, bool) {
	for _, entry := range b.BlogEntries {
		if entry.URLFriendlyID == urlFriendlyID {
			return entry, true
		}
	}
	return Entry{}, false
}

// today is the current UTC calendar date in DateLayout.
func (b *Blog) today() string {
	now := time.Now
	if b.now != nil {
		now = b.now
	}
	return now().UTC().Format(DateLayout)
}

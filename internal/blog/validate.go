package blog

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNextIDTooLow marks an entry id at or above the blog's NextID.
	ErrNextIDTooLow = errors.New("next id is not greater than every entry id")
	// ErrDuplicateID marks an id carried by more than one entry.
	ErrDuplicateID = errors.New("entry id is not unique")
	// ErrDuplicateSlug marks a slug carried by more than one entry.
	ErrDuplicateSlug = errors.New("entry slug is not unique")
	// ErrInvalidDate marks a createdOn or modifiedOn value not in DateLayout.
	ErrInvalidDate = errors.New("entry date is not YYYY-MM-DD")
)

// Validate checks the invariants a loaded document is expected to hold.
// Every violation is reported; the result matches the Err* values with errors.Is.
func (b *Blog) Validate() error {
	var errs []error

	ids := make(map[uint32]int, len(b.BlogEntries))
	slugs := make(map[string]int, len(b.BlogEntries))

	for i, entry := range b.BlogEntries {
		if entry.ID >= b.NextID {
			errs = append(errs, fmt.Errorf("entry %d (id %d, next id %d): %w", i, entry.ID, b.NextID, ErrNextIDTooLow))
		}

		if first, seen := ids[entry.ID]; seen {
			errs = append(errs, fmt.Errorf("entry %d: id %d already used by entry %d: %w", i, entry.ID, first, ErrDuplicateID))
		} else {
			ids[entry.ID] = i
		}

		if first, seen := slugs[entry.URLFriendlyID]; seen {
			errs = append(errs, fmt.Errorf("entry %d: slug %q already used by entry %d: %w", i, entry.URLFriendlyID, first, ErrDuplicateSlug))
		} else {
			slugs[entry.URLFriendlyID] = i
		}

		if _, err := time.Parse(DateLayout, entry.CreatedOn); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: createdOn %q: %w", i, entry.CreatedOn, ErrInvalidDate))
		}
		if _, err := time.Parse(DateLayout, entry.ModifiedOn); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: modifiedOn %q: %w", i, entry.ModifiedOn, ErrInvalidDate))
		}
	}

	return errors.Join(errs...)
}

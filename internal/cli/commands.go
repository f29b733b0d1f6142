package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/blogjson/internal/blog"
	"github.com/yourusername/blogjson/internal/feed"
	"github.com/yourusername/blogjson/internal/render"
	"github.com/yourusername/blogjson/internal/storage"
)

func newFindCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <slug>",
		Short: "Show the entry with the given URL-friendly id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBlog(cmd)
			if err != nil {
				return err
			}

			entry, found := b.FindByURL(args[0])
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No blog entry found for %q\n", args[0])
				return nil
			}
			printEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}
}

func newDemoCommand(a *app) *cobra.Command {
	var (
		slug     string
		deleteID uint32
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through find, insert and delete on the loaded blog (in memory only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.loadBlog(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSummary(cmd, b)

			printFind(out, b, slug)

			entry := b.NewEntry(
				"hello_from_go",
				"Hello from Go",
				"An entry added by the demo command",
				"# Hello\n\nThis entry only lives in memory.",
				blog.Categories("demo", "go"),
			)
			a.logger.Debug("Inserted demo entry", "id", entry.ID, "slug", entry.URLFriendlyID)
			fmt.Fprintf(out, "Inserted entry %d %q\n", entry.ID, entry.URLFriendlyID)
			printFind(out, b, entry.URLFriendlyID)

			removed := b.DeleteEntry(deleteID)
			fmt.Fprintf(out, "Deleted %d entry(s) with id %d\n", removed, deleteID)
			printFind(out, b, slug)

			printSummary(cmd, b)
			return nil
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "first_post_finally", "Slug to look up")
	cmd.Flags().Uint32Var(&deleteID, "delete-id", 1, "Entry id to delete")
	return cmd
}

func newRenderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render <slug>",
		Short: "Print the entry body as sanitized HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.newStore(a.cfg.IsStrict()).Load()
			if err != nil {
				return err
			}

			entry, found := b.FindByURL(args[0])
			if !found {
				return fmt.Errorf("no blog entry found for %q", args[0])
			}

			html, err := render.New().Render(entry.Body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
}

func newFeedCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Write an RSS, Atom or JSON feed of the blog to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = a.cfg.Feed.Format
			}

			b, err := a.newStore(a.cfg.IsStrict()).Load()
			if err != nil {
				return err
			}

			f := feed.BuildWithLogger(b.BlogEntries, feed.Options{
				Title:       a.cfg.Feed.Title,
				Link:        a.cfg.Feed.Link,
				Description: a.cfg.Feed.Description,
				Author:      a.cfg.Feed.Author,
				Email:       a.cfg.Feed.Email,
				Limit:       a.cfg.Feed.Limit,
			}, render.New(), a.logger)

			return feed.Write(cmd.OutOrStdout(), f, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Feed format: rss, atom or json (defaults to configuration)")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the loaded blog document to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.newStore(a.cfg.IsStrict()).Load()
			if err != nil {
				return err
			}
			return storage.Encode(cmd.OutOrStdout(), b)
		},
	}
}

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check ids, slugs and dates of the blog document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.newStore(false).Load()
			if err != nil {
				return err
			}

			issues := unjoin(b.Validate())
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintf(out, "%d entries, next id %d: ok\n", b.Len(), b.NextID)
				return nil
			}

			for _, issue := range issues {
				fmt.Fprintf(out, "- %v\n", issue)
			}
			return fmt.Errorf("blog document has %d issue(s)", len(issues))
		},
	}
}

func printFind(out io.Writer, b *blog.Blog, slug string) {
	entry, found := b.FindByURL(slug)
	if !found {
		fmt.Fprintf(out, "Find %q: not found\n", slug)
		return
	}
	fmt.Fprintf(out, "Find %q: id %d, title %q\n", slug, entry.ID, entry.Title)
}

func printEntry(out io.Writer, entry blog.Entry) {
	names := make([]string, 0, len(entry.Categories))
	for _, c := range entry.Categories {
		names = append(names, c.Name)
	}

	fmt.Fprintf(out, "ID: %d\n", entry.ID)
	fmt.Fprintf(out, "Slug: %s\n", entry.URLFriendlyID)
	fmt.Fprintf(out, "Title: %s\n", entry.Title)
	fmt.Fprintf(out, "Description: %s\n", entry.Description)
	fmt.Fprintf(out, "Section: %s\n", entry.BlogSection)
	fmt.Fprintf(out, "Created: %s\n", entry.CreatedOn)
	fmt.Fprintf(out, "Modified: %s\n", entry.ModifiedOn)
	fmt.Fprintf(out, "Categories: %s\n", strings.Join(names, ", "))
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}

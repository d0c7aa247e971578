package request

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/mkaschner/lectern/internal/readarr"
)

// DeriveAuthorName extracts a canonical author name from the composite
// authorTitle string Readarr lookups return ("Lastname, Firstname Title").
// The book title suffix is stripped case-insensitively, a single-comma name
// is reordered to "Firstname Lastname", and every word is title-cased.
func DeriveAuthorName(authorTitle, title string) string {
	name := authorTitle
	if title != "" {
		re, err := regexp.Compile(`(?i) ` + regexp.QuoteMeta(title) + `$`)
		if err == nil {
			name = re.ReplaceAllString(name, "")
		}
	}
	name = strings.TrimSpace(name)

	if parts := strings.Split(name, ","); len(parts) == 2 {
		name = strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0])
	}

	return titleCaseWords(name)
}

// titleCaseWords upper-cases the first character of every word.
func titleCaseWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevIsWord := false
	for _, r := range s {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		if isWord && !prevIsWord {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevIsWord = isWord
	}
	return b.String()
}

// resolveAuthor turns a book's composite authorTitle into a backend-accepted
// Author record. The backend's relevance ordering is trusted: the first
// lookup result wins, with no local scoring.
func (s *Service) resolveAuthor(ctx context.Context, book *readarr.Book) (*readarr.Author, error) {
	name := DeriveAuthorName(book.AuthorTitle, book.Title)
	s.logger.Info("resolving author", slog.String("name", name), slog.String("authorTitle", book.AuthorTitle))

	matches, err := s.client.LookupAuthors(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("looking up author %q: %w", name, err)
	}
	if len(matches) == 0 {
		return nil, &AuthorNotFoundError{Name: name}
	}

	author := matches[0]
	s.logger.Info("matched author",
		slog.String("name", author.AuthorName),
		slog.String("foreignAuthorId", author.ForeignAuthorID),
	)

	if author.QualityProfileID == 0 {
		profiles, err := s.client.GetQualityProfiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching quality profiles for author: %w", err)
		}
		if len(profiles) > 0 {
			author.QualityProfileID = profiles[0].ID
		} else {
			author.QualityProfileID = 1
		}
	}

	if author.Path == "" {
		folders, err := s.client.GetRootFolders(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching root folders for author: %w", err)
		}
		root := "/books"
		if len(folders) > 0 {
			root = folders[0].Path
		}
		author.Path = root + "/" + author.AuthorName
	}

	// Once an author enters the system via a book add, all their future
	// catalog items are auto-monitored.
	author.Monitored = true
	author.MonitorNewItems = "all"

	return &author, nil
}

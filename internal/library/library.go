// Package library provides read-only views over backend book and queue
// lists for the presentation layer. No backend calls happen here.
package library

import (
	"fmt"
	"sort"

	"github.com/mkaschner/lectern/internal/readarr"
	"github.com/mkaschner/lectern/internal/request"
)

// UnknownAuthor is the bucket name for books whose author cannot be
// determined. It always sorts last.
const UnknownAuthor = "Unknown Author"

// Filter selects a subset of the library by download state.
type Filter string

// Recognized filters.
const (
	FilterAll        Filter = "all"
	FilterDownloaded Filter = "downloaded"
	FilterMissing    Filter = "missing"
)

// AuthorGroup is a set of books attributed to one author.
type AuthorGroup struct {
	AuthorID   int            `json:"authorId"`
	AuthorName string         `json:"authorName"`
	Books      []readarr.Book `json:"books"`
	Downloaded int            `json:"downloadedCount"`
	Total      int            `json:"totalCount"`
}

// Stats summarizes download completeness for a set of books.
type Stats struct {
	Total      int     `json:"total"`
	Downloaded int     `json:"downloaded"`
	Missing    int     `json:"missing"`
	Percent    float64 `json:"percent"`
}

// Summarize computes global downloaded/missing counts. Percent is 0 for an
// empty library, never NaN.
func Summarize(books []readarr.Book) Stats {
	s := Stats{Total: len(books)}
	for i := range books {
		if books[i].HasFile() {
			s.Downloaded++
		} else {
			s.Missing++
		}
	}
	if s.Total > 0 {
		s.Percent = float64(s.Downloaded) / float64(s.Total) * 100
	}
	return s
}

// Apply returns the books matching the filter. Unrecognized filters return
// the full list.
func Apply(books []readarr.Book, f Filter) []readarr.Book {
	switch f {
	case FilterDownloaded, FilterMissing:
	default:
		return books
	}

	var out []readarr.Book
	for i := range books {
		has := books[i].HasFile()
		if (f == FilterDownloaded && has) || (f == FilterMissing && !has) {
			out = append(out, books[i])
		}
	}
	return out
}

// GroupByAuthor buckets books by author identity: the numeric author id when
// present, otherwise a name parsed from authorTitle, otherwise the Unknown
// bucket. Groups sort alphabetically with Unknown last.
func GroupByAuthor(books []readarr.Book) []AuthorGroup {
	byKey := make(map[string]*AuthorGroup)
	var order []string

	for i := range books {
		b := books[i]
		authorID := b.AuthorID
		if b.Author != nil && b.Author.ID != 0 {
			authorID = b.Author.ID
		}

		name := authorNameFor(&b)
		key := fmt.Sprintf("id:%d", authorID)
		if authorID == 0 {
			key = "name:" + name
		}

		g, ok := byKey[key]
		if !ok {
			g = &AuthorGroup{
				AuthorID:   authorID,
				AuthorName: name,
			}
			byKey[key] = g
			order = append(order, key)
		}

		g.Books = append(g.Books, b)
		g.Total++
		if b.HasFile() {
			g.Downloaded++
		}
	}

	groups := make([]AuthorGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].AuthorName == UnknownAuthor {
			return false
		}
		if groups[j].AuthorName == UnknownAuthor {
			return true
		}
		return groups[i].AuthorName < groups[j].AuthorName
	})
	return groups
}

func authorNameFor(b *readarr.Book) string {
	if b.Author != nil && b.Author.AuthorName != "" {
		return b.Author.AuthorName
	}
	if b.AuthorTitle != "" {
		if name := request.DeriveAuthorName(b.AuthorTitle, b.Title); name != "" {
			return name
		}
	}
	if b.AuthorID != 0 {
		return fmt.Sprintf("Author ID: %d", b.AuthorID)
	}
	return UnknownAuthor
}

// QueueProgress converts a queue item's remaining bytes into a completion
// percentage. 0 when the total size is unknown.
func QueueProgress(item *readarr.QueueItem) float64 {
	if item.Size <= 0 {
		return 0
	}
	return (item.Size - item.SizeLeft) / item.Size * 100
}

// Package request implements the book-add orchestration flow: author
// resolution, edition synthesis, payload assembly, submission, and the
// best-effort post-add side-flow.
package request

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mkaschner/lectern/internal/event"
	"github.com/mkaschner/lectern/internal/readarr"
)

// Service orchestrates book-add requests against the Readarr backend.
type Service struct {
	client *readarr.Client
	bus    *event.Bus
	logger *slog.Logger
}

// NewService creates a request service. bus may be nil, in which case no
// post-add events are published.
func NewService(client *readarr.Client, bus *event.Bus, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		bus:    bus,
		logger: logger.With(slog.String("component", "request")),
	}
}

// Add runs the full add flow for a lookup-result book and returns the record
// the backend created. The steps run strictly sequentially; any failure is
// terminal for the whole operation and is never retried, since resubmission
// risks duplicate creation. On success a BookAdded event is published for
// the detached side-flow; failures publish BookAddFailed.
func (s *Service) Add(ctx context.Context, book *readarr.Book) (*readarr.Book, error) {
	added, err := s.add(ctx, book)
	if err != nil && s.bus != nil {
		s.bus.Publish(event.Event{
			Type: event.BookAddFailed,
			Data: map[string]any{
				"title": book.Title,
				"error": err.Error(),
			},
		})
	}
	return added, err
}

func (s *Service) add(ctx context.Context, book *readarr.Book) (*readarr.Book, error) {
	if strings.TrimSpace(book.Title) == "" {
		return nil, &InvalidInputError{Reason: "book title is required"}
	}

	author := book.Author
	if author == nil {
		if book.AuthorTitle == "" {
			return nil, &InvalidInputError{Reason: "book author information is required"}
		}
		resolved, err := s.resolveAuthor(ctx, book)
		if err != nil {
			return nil, err
		}
		author = resolved
	}

	editions, err := synthesizeEditions(book)
	if err != nil {
		return nil, err
	}

	qualityProfileID := book.QualityProfileID
	if qualityProfileID == 0 {
		profiles, err := s.client.GetQualityProfiles(ctx)
		if err != nil {
			return nil, err
		}
		if len(profiles) == 0 {
			return nil, &BackendEmptyError{Resource: "quality profiles"}
		}
		qualityProfileID = profiles[0].ID
	}

	rootFolderPath := book.RootFolderPath
	if rootFolderPath == "" {
		folders, err := s.client.GetRootFolders(ctx)
		if err != nil {
			return nil, err
		}
		if len(folders) == 0 {
			return nil, &BackendEmptyError{Resource: "root folders"}
		}
		rootFolderPath = folders[0].Path
	}

	author.Monitored = true
	author.MonitorNewItems = "all"

	anyEditionOk := true
	if book.AnyEditionOk != nil {
		anyEditionOk = *book.AnyEditionOk
	}

	metadataProfileID := author.MetadataProfileID
	if metadataProfileID == 0 {
		metadataProfileID = 1
	}

	payload := &readarr.BookPayload{
		Title:             book.Title,
		TitleSlug:         book.TitleSlug,
		Author:            author,
		Editions:          editions,
		Monitored:         true,
		AnyEditionOk:      anyEditionOk,
		AuthorID:          book.AuthorID,
		ForeignBookID:     book.ForeignBookID,
		QualityProfileID:  qualityProfileID,
		MetadataProfileID: metadataProfileID,
		RootFolderPath:    rootFolderPath,
		AddOptions: readarr.AddOptions{
			Monitor:              "all",
			SearchForNewBook:     true,
			SearchForMissingBook: false,
		},
	}

	added, err := s.client.AddBook(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("book added",
		slog.Int("id", added.ID),
		slog.String("title", added.Title),
	)

	authorID := 0
	if added.Author != nil {
		authorID = added.Author.ID
	}
	if authorID == 0 {
		authorID = author.ID
	}

	if s.bus != nil && authorID != 0 {
		s.bus.Publish(event.Event{
			Type: event.BookAdded,
			Data: map[string]any{
				"bookId":   added.ID,
				"authorId": authorID,
				"title":    added.Title,
			},
		})
	}

	return added, nil
}

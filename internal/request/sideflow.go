package request

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkaschner/lectern/internal/event"
	"github.com/mkaschner/lectern/internal/readarr"
)

const (
	// DefaultSettleDelay approximates how long Readarr's asynchronous author
	// refresh needs before the book list reflects it. There is no completion
	// signal to wait on, so this is a fixed heuristic.
	DefaultSettleDelay = 3 * time.Second

	sideFlowTimeout = 2 * time.Minute
)

// SideFlow runs the best-effort post-add branch: refresh the author's
// catalog, wait for the refresh to settle, then trigger one batched search
// for every book of that author still missing a file. It subscribes to
// BookAdded events and runs detached from the request that produced them;
// every failure here is logged and swallowed.
type SideFlow struct {
	client *readarr.Client
	logger *slog.Logger
	settle time.Duration
}

// NewSideFlow creates a side-flow runner with the default settle delay.
func NewSideFlow(client *readarr.Client, logger *slog.Logger) *SideFlow {
	return &SideFlow{
		client: client,
		logger: logger.With(slog.String("component", "sideflow")),
		settle: DefaultSettleDelay,
	}
}

// SetSettleDelay overrides the settle delay (used by tests).
func (f *SideFlow) SetSettleDelay(d time.Duration) {
	f.settle = d
}

// HandleEvent is an event.Handler for BookAdded events. Each event runs in
// its own goroutine so the settle delay never blocks the bus.
func (f *SideFlow) HandleEvent(e event.Event) {
	authorID, ok := e.Data["authorId"].(int)
	if !ok || authorID == 0 {
		return
	}
	go f.Run(authorID)
}

// Run executes the side-flow for one author. It uses its own detached
// context; the add response has already been sent by the time this runs.
func (f *SideFlow) Run(authorID int) {
	ctx, cancel := context.WithTimeout(context.Background(), sideFlowTimeout)
	defer cancel()

	if _, err := f.client.RefreshAuthor(ctx, authorID); err != nil {
		f.logger.Warn("author refresh failed", slog.Int("authorId", authorID), "error", err)
		return
	}

	select {
	case <-time.After(f.settle):
	case <-ctx.Done():
		return
	}

	books, err := f.client.GetBooks(ctx)
	if err != nil {
		f.logger.Warn("listing books after refresh failed", slog.Int("authorId", authorID), "error", err)
		return
	}

	var missing []int
	for _, b := range books {
		if !bookBelongsTo(&b, authorID) {
			continue
		}
		if !b.HasFile() && b.ID != 0 {
			missing = append(missing, b.ID)
		}
	}

	f.logger.Info("author catalog synced",
		slog.Int("authorId", authorID),
		slog.Int("missing", len(missing)),
	)

	if len(missing) == 0 {
		return
	}

	if _, err := f.client.SearchBooks(ctx, missing); err != nil {
		f.logger.Warn("missing-book search failed", slog.Int("authorId", authorID), "error", err)
	}
}

func bookBelongsTo(b *readarr.Book, authorID int) bool {
	if b.Author != nil && b.Author.ID == authorID {
		return true
	}
	return b.AuthorID == authorID
}

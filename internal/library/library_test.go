package library

import (
	"testing"

	"github.com/mkaschner/lectern/internal/readarr"
)

func downloaded() *readarr.Statistics {
	return &readarr.Statistics{BookFileCount: 1}
}

func TestSummarize(t *testing.T) {
	books := []readarr.Book{
		{ID: 1, Statistics: downloaded()},
		{ID: 2},
		{ID: 3, Statistics: &readarr.Statistics{BookFileCount: 0}},
		{ID: 4, Statistics: downloaded()},
	}

	s := Summarize(books)
	if s.Total != 4 || s.Downloaded != 2 || s.Missing != 2 {
		t.Errorf("stats = %+v, want 4/2/2", s)
	}
	if s.Percent != 50 {
		t.Errorf("percent = %v, want 50", s.Percent)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Percent != 0 {
		t.Errorf("percent for empty library = %v, want exactly 0", s.Percent)
	}
}

func TestApply(t *testing.T) {
	books := []readarr.Book{
		{ID: 1, Statistics: downloaded()},
		{ID: 2},
	}

	if got := Apply(books, FilterDownloaded); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("downloaded filter = %+v", got)
	}
	if got := Apply(books, FilterMissing); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("missing filter = %+v", got)
	}
	if got := Apply(books, FilterAll); len(got) != 2 {
		t.Errorf("all filter = %+v", got)
	}
	if got := Apply(books, Filter("bogus")); len(got) != 2 {
		t.Errorf("unknown filter should pass through, got %+v", got)
	}
}

func TestGroupByAuthor(t *testing.T) {
	books := []readarr.Book{
		{ID: 1, Title: "Dune", Author: &readarr.Author{ID: 3, AuthorName: "Frank Herbert"}, Statistics: downloaded()},
		{ID: 2, Title: "Dune Messiah", AuthorID: 3},
		{ID: 5, Title: "The Raven", AuthorTitle: "poe, edgar allan The Raven"},
		{ID: 9, Title: "Anon"},
	}

	groups := GroupByAuthor(books)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	// Alphabetical with Unknown Author last.
	if groups[0].AuthorName != "Edgar Allan Poe" {
		t.Errorf("group 0 = %q, want Edgar Allan Poe", groups[0].AuthorName)
	}
	if groups[1].AuthorName != "Frank Herbert" {
		t.Errorf("group 1 = %q, want Frank Herbert", groups[1].AuthorName)
	}
	if groups[2].AuthorName != UnknownAuthor {
		t.Errorf("group 2 = %q, want %q", groups[2].AuthorName, UnknownAuthor)
	}

	herbert := groups[1]
	if herbert.Total != 2 || herbert.Downloaded != 1 {
		t.Errorf("herbert counts = %d/%d, want 2 total 1 downloaded", herbert.Total, herbert.Downloaded)
	}
}

func TestQueueProgress(t *testing.T) {
	tests := []struct {
		item readarr.QueueItem
		want float64
	}{
		{readarr.QueueItem{Size: 100, SizeLeft: 25}, 75},
		{readarr.QueueItem{Size: 100, SizeLeft: 100}, 0},
		{readarr.QueueItem{Size: 0, SizeLeft: 0}, 0},
		{readarr.QueueItem{Size: 100, SizeLeft: 0}, 100},
	}
	for _, tt := range tests {
		if got := QueueProgress(&tt.item); got != tt.want {
			t.Errorf("QueueProgress(%+v) = %v, want %v", tt.item, got, tt.want)
		}
	}
}

package request

import "github.com/mkaschner/lectern/internal/readarr"

// synthesizeEditions returns the edition list an add payload needs. Books
// that already carry editions pass through with monitoring forced on; a book
// without any gets exactly one minimal edition built from its own fields.
// The ISBN/ASIN/publisher/format placeholders stay empty for the backend to
// populate after acquisition. Idempotent.
func synthesizeEditions(book *readarr.Book) ([]readarr.Edition, error) {
	if len(book.Editions) > 0 {
		editions := make([]readarr.Edition, len(book.Editions))
		copy(editions, book.Editions)
		for i := range editions {
			editions[i].Monitored = true
		}
		return editions, nil
	}

	if book.ForeignEditionID == "" {
		return nil, &InvalidInputError{Reason: "book must have a foreignEditionId to create an edition"}
	}

	return []readarr.Edition{{
		ForeignEditionID: book.ForeignEditionID,
		TitleSlug:        book.TitleSlug,
		Title:            book.Title,
		PageCount:        book.PageCount,
		ReleaseDate:      book.ReleaseDate,
		Images:           book.Images,
		Links:            book.Links,
		Ratings:          book.Ratings,
		Monitored:        true,
	}}, nil
}

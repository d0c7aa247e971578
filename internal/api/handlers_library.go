package api

import (
	"net/http"

	"github.com/mkaschner/lectern/internal/library"
)

func (r *Router) handleLibrary(w http.ResponseWriter, req *http.Request) {
	books, err := r.readarr.GetBooks(req.Context())
	if err != nil {
		r.writeBackendError(w, "listing library", err)
		return
	}

	filter := library.Filter(req.URL.Query().Get("filter"))
	if filter == "" {
		filter = library.FilterAll
	}
	filtered := library.Apply(books, filter)

	resp := map[string]any{
		"stats": library.Summarize(books),
	}
	if req.URL.Query().Get("view") == "authors" {
		resp["authors"] = library.GroupByAuthor(filtered)
	} else {
		resp["books"] = filtered
	}

	writeJSON(w, http.StatusOK, resp)
}

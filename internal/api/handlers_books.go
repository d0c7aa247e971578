package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkaschner/lectern/internal/api/middleware"
	"github.com/mkaschner/lectern/internal/history"
	"github.com/mkaschner/lectern/internal/readarr"
	"github.com/mkaschner/lectern/internal/request"
)

func (r *Router) handleSearch(w http.ResponseWriter, req *http.Request) {
	term := req.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	books, err := r.readarr.Lookup(req.Context(), term)
	if err != nil {
		r.writeBackendError(w, "searching readarr", err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (r *Router) handleListBooks(w http.ResponseWriter, req *http.Request) {
	books, err := r.readarr.GetBooks(req.Context())
	if err != nil {
		r.writeBackendError(w, "listing books", err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (r *Router) handleAddBook(w http.ResponseWriter, req *http.Request) {
	var book readarr.Book
	if err := json.NewDecoder(req.Body).Decode(&book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := r.requestService.Add(req.Context(), &book)

	username := ""
	if user := middleware.UserFromContext(req.Context()); user != nil {
		username = user.Username
	}
	if r.historyService != nil {
		outcome := history.OutcomeAdded
		if err != nil {
			outcome = history.OutcomeFailed
		}
		r.historyService.Record(req.Context(), username, book.Title, book.ForeignBookID, outcome, err)
	}

	if err != nil {
		status := request.HTTPStatus(err)
		r.logger.Error("add book failed",
			"title", book.Title,
			"status", status,
			"error", err,
		)
		resp := errorResponse{Error: err.Error()}
		var backendErr *readarr.Error
		if errors.As(err, &backendErr) {
			resp.Error = "readarr rejected the request"
			resp.Status = backendErr.Status
			resp.Details = backendErr.Message
		}
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, added)
}

func (r *Router) handleSearchBooks(w http.ResponseWriter, req *http.Request) {
	var body struct {
		BookIDs []int `json:"bookIds"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.BookIDs) == 0 {
		writeError(w, http.StatusBadRequest, "bookIds must not be empty")
		return
	}

	resp, err := r.readarr.SearchBooks(req.Context(), body.BookIDs)
	if err != nil {
		r.writeBackendError(w, "triggering book search", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (r *Router) handleQueue(w http.ResponseWriter, req *http.Request) {
	queue, err := r.readarr.GetQueue(req.Context())
	if err != nil {
		r.writeBackendError(w, "fetching queue", err)
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

// writeBackendError maps a readarr client error onto the response, keeping
// the backend's status when it had one and 500 for connectivity failures.
func (r *Router) writeBackendError(w http.ResponseWriter, action string, err error) {
	r.logger.Error(action, "error", err)

	var backendErr *readarr.Error
	if errors.As(err, &backendErr) {
		status := backendErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{
			Error:   action + " failed",
			Status:  backendErr.Status,
			Details: backendErr.Message,
		})
		return
	}
	writeError(w, http.StatusInternalServerError, action+" failed")
}

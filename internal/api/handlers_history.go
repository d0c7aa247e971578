package api

import (
	"net/http"
	"strconv"
)

func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) {
	limit := 50
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := r.historyService.List(req.Context(), limit)
	if err != nil {
		r.logger.Error("listing history", "error", err)
		writeError(w, http.StatusInternalServerError, "listing history failed")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

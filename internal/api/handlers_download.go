package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mkaschner/lectern/internal/download"
)

func (r *Router) handleDownload(w http.ResponseWriter, req *http.Request) {
	bookID, err := strconv.Atoi(req.PathValue("bookId"))
	if err != nil || bookID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	files, err := r.readarr.GetBookFiles(req.Context(), bookID)
	if err != nil {
		r.writeBackendError(w, "fetching book files", err)
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusNotFound, "no file available for this book")
		return
	}

	reported := files[0].Path
	local := download.TranslatePath(reported, r.mountPath)
	if _, err := os.Stat(local); err != nil {
		r.logger.Warn("book file missing on disk",
			"bookId", bookID,
			"reported", reported,
			"local", local,
		)
		writeError(w, http.StatusNotFound, "book file not found on disk")
		return
	}

	filename := filepath.Base(local)
	w.Header().Set("Content-Type", download.MIMEType(filename))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, req, local)
}

package request

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mkaschner/lectern/internal/readarr"
)

// InvalidInputError reports a request missing a required field. The caller
// can correct it and retry.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// AuthorNotFoundError reports that the backend's author lookup returned no
// results for the derived name. Not retryable here; the author has to enter
// the backend's catalog first.
type AuthorNotFoundError struct {
	Name string
}

func (e *AuthorNotFoundError) Error() string {
	return fmt.Sprintf("could not find author %q in readarr; try searching for the author in readarr first", e.Name)
}

// BackendEmptyError reports that a backend configuration list (quality
// profiles, root folders) came back empty. A server misconfiguration, not
// something the user can correct.
type BackendEmptyError struct {
	Resource string
}

func (e *BackendEmptyError) Error() string {
	return "no " + e.Resource + " found in readarr"
}

// HTTPStatus maps an add-operation error to the response status code.
func HTTPStatus(err error) int {
	var invalid *InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}
	var notFound *AuthorNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var backend *readarr.Error
	if errors.As(err, &backend) && backend.Status > 0 {
		return backend.Status
	}
	return http.StatusInternalServerError
}

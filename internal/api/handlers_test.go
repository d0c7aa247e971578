package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkaschner/lectern/internal/api/middleware"
	"github.com/mkaschner/lectern/internal/auth"
	"github.com/mkaschner/lectern/internal/config"
	"github.com/mkaschner/lectern/internal/database"
	"github.com/mkaschner/lectern/internal/history"
	"github.com/mkaschner/lectern/internal/readarr"
	"github.com/mkaschner/lectern/internal/request"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestRouter wires a router against a scripted readarr backend and a
// throwaway sqlite database.
func newTestRouter(t *testing.T, backend http.Handler, mountPath string) *Router {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	db, err := database.Open(t.TempDir() + "/api.db")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := testLogger()
	client := readarr.NewWithHTTPClient(srv.URL, "test-key", srv.Client(), logger)
	authSvc := auth.NewService(db, []config.User{
		{Username: "jane", Password: "secret", Name: "Jane"},
	}, logger)

	return NewRouter(RouterDeps{
		AuthService:    authSvc,
		RequestService: request.NewService(client, nil, logger),
		HistoryService: history.NewService(db, logger),
		Readarr:        client,
		Logger:         logger,
		MountPath:      mountPath,
	})
}

func testUserCtx(req *http.Request) *http.Request {
	ctx := middleware.WithTestUser(req.Context(), &auth.User{Username: "jane", Name: "Jane"})
	return req.WithContext(ctx)
}

func TestHandleHealthReportsBackendState(t *testing.T) {
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/api/v1/system/status" {
			json.NewEncoder(w).Encode(readarr.SystemStatus{Version: "0.3.0"})
			return
		}
		http.NotFound(w, req)
	}), "/books")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	r.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["backend"] != "ok" {
		t.Errorf("backend = %q, want ok", body["backend"])
	}
}

func TestLoginAndAuthFlow(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]readarr.Book{})
	})
	r := newTestRouter(t, backend, "/books")
	handler := r.Handler()

	// Unauthenticated requests are rejected.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", w.Code)
	}

	// Login issues a session cookie.
	w = httptest.NewRecorder()
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"jane","password":"secret"}`))
	handler.ServeHTTP(w, loginReq)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !session.HttpOnly {
		t.Error("session cookie should be http-only")
	}

	// The cookie authenticates subsequent requests.
	w = httptest.NewRecorder()
	booksReq := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	booksReq.AddCookie(session)
	handler.ServeHTTP(w, booksReq)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", w.Code)
	}

	// So does a bearer token.
	w = httptest.NewRecorder()
	bearerReq := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	bearerReq.Header.Set("Authorization", "Bearer "+session.Value)
	handler.ServeHTTP(w, bearerReq)
	if w.Code != http.StatusOK {
		t.Errorf("bearer status = %d, want 200", w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t, http.NotFoundHandler(), "/books")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"jane","password":"wrong"}`))
	r.handleLogin(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestHandleSearchRequiresQuery(t *testing.T) {
	r := newTestRouter(t, http.NotFoundHandler(), "/books")

	w := httptest.NewRecorder()
	r.handleSearch(w, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleSearchPassesThroughResults(t *testing.T) {
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/v1/book/lookup" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		if got := req.URL.Query().Get("term"); got != "dune" {
			t.Errorf("term = %q, want dune", got)
		}
		json.NewEncoder(w).Encode([]readarr.Book{{Title: "Dune"}})
	}), "/books")

	w := httptest.NewRecorder()
	r.handleSearch(w, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=dune", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var books []readarr.Book
	if err := json.NewDecoder(w.Body).Decode(&books); err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Errorf("unexpected results %+v", books)
	}
}

func TestHandleAddBookMapsAuthorNotFound(t *testing.T) {
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/api/v1/author/lookup" {
			json.NewEncoder(w).Encode([]readarr.Author{})
			return
		}
		t.Errorf("unexpected backend call %s %s", req.Method, req.URL.Path)
	}), "/books")

	w := httptest.NewRecorder()
	req := testUserCtx(httptest.NewRequest(http.MethodPost, "/api/v1/books",
		strings.NewReader(`{"title":"Dune","authorTitle":"herbert, frank Dune"}`)))
	r.handleAddBook(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", w.Code, w.Body.String())
	}

	// The failure lands in the request history.
	entries, err := r.historyService.List(req.Context(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Outcome != history.OutcomeFailed {
		t.Errorf("unexpected history %+v", entries)
	}
	if entries[0].Username != "jane" {
		t.Errorf("username = %q, want jane", entries[0].Username)
	}
}

func TestHandleAddBookRejectsInvalidBody(t *testing.T) {
	r := newTestRouter(t, http.NotFoundHandler(), "/books")

	w := httptest.NewRecorder()
	req := testUserCtx(httptest.NewRequest(http.MethodPost, "/api/v1/books",
		strings.NewReader(`not json`)))
	r.handleAddBook(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleSearchBooksRejectsEmptyList(t *testing.T) {
	r := newTestRouter(t, http.NotFoundHandler(), "/books")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/command/search-books",
		strings.NewReader(`{"bookIds":[]}`))
	r.handleSearchBooks(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleLibraryAuthorView(t *testing.T) {
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]readarr.Book{
			{
				ID:         1,
				Title:      "Dune",
				Author:     &readarr.Author{ID: 3, AuthorName: "Frank Herbert"},
				Statistics: &readarr.Statistics{BookFileCount: 1},
			},
			{
				ID:     2,
				Title:  "Dune Messiah",
				Author: &readarr.Author{ID: 3, AuthorName: "Frank Herbert"},
			},
		})
	}), "/books")

	w := httptest.NewRecorder()
	r.handleLibrary(w, httptest.NewRequest(http.MethodGet, "/api/v1/library?view=authors", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Stats struct {
			Total      int `json:"total"`
			Downloaded int `json:"downloaded"`
		} `json:"stats"`
		Authors []struct {
			AuthorName string `json:"authorName"`
			Total      int    `json:"totalCount"`
		} `json:"authors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Stats.Total != 2 || body.Stats.Downloaded != 1 {
		t.Errorf("unexpected stats %+v", body.Stats)
	}
	if len(body.Authors) != 1 || body.Authors[0].AuthorName != "Frank Herbert" || body.Authors[0].Total != 2 {
		t.Errorf("unexpected authors %+v", body.Authors)
	}
}

func TestHandleLibraryMissingFilter(t *testing.T) {
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]readarr.Book{
			{ID: 1, Title: "Dune", Statistics: &readarr.Statistics{BookFileCount: 1}},
			{ID: 2, Title: "Ubik"},
		})
	}), "/books")

	w := httptest.NewRecorder()
	r.handleLibrary(w, httptest.NewRequest(http.MethodGet, "/api/v1/library?filter=missing", nil))

	var body struct {
		Books []readarr.Book `json:"books"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Books) != 1 || body.Books[0].Title != "Ubik" {
		t.Errorf("unexpected books %+v", body.Books)
	}
}

func TestHandleDownloadServesTranslatedFile(t *testing.T) {
	mount := t.TempDir()
	if err := os.MkdirAll(filepath.Join(mount, "Dune"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mount, "Dune", "dune.epub"), []byte("book bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]readarr.BookFile{
			{ID: 9, Path: "/data/books/Dune/dune.epub"},
		})
	}), mount)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/1", nil)
	req.SetPathValue("bookId", "1")
	w := httptest.NewRecorder()
	r.handleDownload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/epub+zip" {
		t.Errorf("content-type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "dune.epub") {
		t.Errorf("content-disposition = %q", got)
	}
	if w.Body.String() != "book bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestHandleDownloadNoFileRecord(t *testing.T) {
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]readarr.BookFile{})
	}), "/books")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/1", nil)
	req.SetPathValue("bookId", "1")
	w := httptest.NewRecorder()
	r.handleDownload(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleDownloadMissingOnDisk(t *testing.T) {
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]readarr.BookFile{
			{ID: 9, Path: "/data/books/Gone/gone.epub"},
		})
	}), t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/1", nil)
	req.SetPathValue("bookId", "1")
	w := httptest.NewRecorder()
	r.handleDownload(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleHistoryRejectsInvalidLimit(t *testing.T) {
	r := newTestRouter(t, http.NotFoundHandler(), "/books")

	w := httptest.NewRecorder()
	r.handleHistory(w, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=nope", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

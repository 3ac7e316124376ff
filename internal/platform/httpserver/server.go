package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	entryservice "patchbay/contexts/catalog/entry-service"
	comparisonengine "patchbay/contexts/comparison/comparison-engine"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "patchbay/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	baseURL     string
	uploadToken string
	catalog     entryservice.Module
	comparison  comparisonengine.Module
}

type Options struct {
	Addr        string
	BaseURL     string
	UploadToken string
}

func New(
	catalog entryservice.Module,
	comparison comparisonengine.Module,
	logger *slog.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		baseURL:     baseURL,
		uploadToken: opts.UploadToken,
		catalog:     catalog,
		comparison:  comparison,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/entries", s.handleListEntries)
	s.mux.HandleFunc("POST /api/entries", s.requireUploadToken(s.handleCreateEntry))
	s.mux.HandleFunc("GET /api/entries/{entry_id}", s.handleGetEntry)
	s.mux.HandleFunc("GET /api/tags", s.handleListTags)
	s.mux.HandleFunc("POST /api/tags", s.requireUploadToken(s.handleCreateTag))
	s.mux.HandleFunc("GET /api/authors", s.handleListAuthors)
	s.mux.HandleFunc("GET /api/licenses", s.handleListLicenses)
	s.mux.HandleFunc("GET /api/images", s.handleFindImages)
	s.mux.HandleFunc("GET /api/attachments", s.handleFindAttachments)
	s.mux.HandleFunc("GET /feed", s.handleFeed)

	s.mux.HandleFunc("GET /api/questions", s.handleListQuestions)
	s.mux.HandleFunc("POST /api/questions", s.requireUploadToken(s.handleCreateQuestion))
	s.mux.HandleFunc("GET /api/compare/{question_slug}", s.handleComparePair)
	s.mux.HandleFunc("POST /api/compare/{question_slug}/votes", s.handleRecordVote)
	s.mux.HandleFunc("GET /api/compare/{question_slug}/answers", s.handleMergedAnswer)
	s.mux.HandleFunc("GET /api/entries/{entry_id}/similar", s.handleSimilarEntries)
	s.mux.HandleFunc("GET /api/admin/comparison/audit", s.requireUploadToken(s.handleComparisonAudit))
}

// requireUploadToken guards write endpoints with the shared X-Api-Token.
// An empty configured token disables the check for local development.
func (s *Server) requireUploadToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.uploadToken != "" {
			presented := r.Header.Get("X-Api-Token")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(s.uploadToken)) != 1 {
				writeCatalogError(w, http.StatusUnauthorized, "invalid_token", "X-Api-Token header is missing or wrong")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) decodeJSON(
	w http.ResponseWriter,
	r *http.Request,
	target any,
	writeError func(http.ResponseWriter, int, string, string),
) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}

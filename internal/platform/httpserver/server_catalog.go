package httpserver

import (
	"encoding/xml"
	"errors"
	"net/http"
	"strconv"
	"time"

	"patchbay/contexts/catalog/entry-service/domain/entities"
	catalogerrors "patchbay/contexts/catalog/entry-service/domain/errors"
	catalogports "patchbay/contexts/catalog/entry-service/ports"
	cataloghttp "patchbay/contexts/catalog/entry-service/transport/http"
)

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{Code: code, Message: message})
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrEntryNotFound):
		writeCatalogError(w, http.StatusNotFound, "entry_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrTagNotFound):
		writeCatalogError(w, http.StatusUnprocessableEntity, "tag_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrAuthorNotFound):
		writeCatalogError(w, http.StatusUnprocessableEntity, "author_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrLicenseNotFound):
		writeCatalogError(w, http.StatusUnprocessableEntity, "license_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrTagExists):
		writeCatalogError(w, http.StatusConflict, "tag_exists", err.Error())
	case errors.Is(err, catalogerrors.ErrDuplicateAsset):
		writeCatalogError(w, http.StatusConflict, "duplicate_asset", err.Error())
	case errors.Is(err, catalogerrors.ErrInvalidEntryInput):
		writeCatalogError(w, http.StatusBadRequest, "invalid_entry_input", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// handleListEntries serves GET /api/entries with exact-match filters on
// name, recording filename and owned-asset checksum.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query() // gorm-postgres-enforcer: allow-raw-sql parses HTTP query parameters only
	filter := catalogports.EntryFilter{
		Names:     query["name"],
		Filenames: query["filename"],
		Checksums: query["checksum"],
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeCatalogError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		filter.Limit = limit
	}
	if offsetRaw := query.Get("offset"); offsetRaw != "" {
		offset, err := strconv.Atoi(offsetRaw)
		if err != nil {
			writeCatalogError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
			return
		}
		filter.Offset = offset
	}

	resp, err := s.catalog.Handler.ListEntriesHandler(r.Context(), filter)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetEntryHandler(r.Context(), r.PathValue("entry_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CreateEntryRequest
	if !s.decodeJSON(w, r, &req, writeCatalogError) {
		return
	}
	resp, err := s.catalog.Handler.CreateEntryHandler(r.Context(), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	status := http.StatusCreated
	if !req.Write {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListTagsHandler(r.Context(), r.URL.Query()["name"])
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CreateTagRequest
	if !s.decodeJSON(w, r, &req, writeCatalogError) {
		return
	}
	resp, err := s.catalog.Handler.CreateTagHandler(r.Context(), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAuthors(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListAuthorsHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListLicenses(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListLicensesHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFindImages(w http.ResponseWriter, r *http.Request) {
	s.handleFindAssets(w, r, entities.AssetKindImage)
}

func (s *Server) handleFindAttachments(w http.ResponseWriter, r *http.Request) {
	s.handleFindAssets(w, r, entities.AssetKindAttachment)
}

func (s *Server) handleFindAssets(w http.ResponseWriter, r *http.Request, kind entities.AssetKind) {
	resp, err := s.catalog.Handler.FindAssetsHandler(r.Context(), kind, r.URL.Query()["checksum"])
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.catalog.Handler.FeedHandler(r.Context(), s.baseURL, time.Now().UTC())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(feed)
}

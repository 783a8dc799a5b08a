package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/runnerr0/recalldoc/internal/footprint"
	"github.com/runnerr0/recalldoc/internal/storage"
)

type statusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Scopes        int    `json:"scopes"`
}

type visitResponse struct {
	Scope     footprint.Scope     `json:"scope"`
	Footprint footprint.Footprint `json:"footprint"`
	Size      int                 `json:"size"`
}

type searchResponse struct {
	Scope      footprint.Scope       `json:"scope"`
	Query      string                `json:"query"`
	Romaji     bool                  `json:"romaji"`
	Total      int                   `json:"total"`
	Footprints []footprint.Footprint `json:"footprints"`
}

type startupResponse struct {
	Open        bool   `json:"open"`
	Combination string `json:"combination"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody decodes a JSON request body, mapping an oversized body to 413.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func scopeParam(r *http.Request) (footprint.Scope, error) {
	q := r.URL.Query()
	scope := footprint.Scope{SiteID: q.Get("site"), TeamID: q.Get("team")}
	return scope, scope.Validate()
}

func boolParam(r *http.Request, name string) (value, present bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, false, nil
	}
	value, err = strconv.ParseBool(raw)
	return value, true, err
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	scopes, err := s.repo.Scopes(r.Context())
	if err != nil {
		s.logger.Error("list scopes", "error", err)
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:        "ok",
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Scopes:        len(scopes),
	})
}

func (s *Server) handleVisit(w http.ResponseWriter, r *http.Request) {
	var v footprint.Visit
	if !decodeBody(w, r, &v) {
		return
	}
	if v.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	scope, fp, err := footprint.FromVisit(v)
	if err != nil {
		switch {
		case errors.Is(err, footprint.ErrUnknownSite),
			errors.Is(err, footprint.ErrMissingName),
			errors.Is(err, footprint.ErrUnknownPage):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	history, err := s.repo.UpdateFootprint(r.Context(), scope, fp)
	if err != nil {
		s.logger.Error("record visit", "scope", scope.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record visit")
		return
	}
	writeJSON(w, http.StatusOK, visitResponse{Scope: scope, Footprint: fp, Size: len(history)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	romaji, present, err := boolParam(r, "romaji")
	if err != nil {
		writeError(w, http.StatusBadRequest, "romaji must be a boolean")
		return
	}
	if !present {
		cfg, err := s.repo.LoadConfig(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load config")
			return
		}
		romaji = cfg.EnableRomajiSearch
	}

	limit := s.cfg.Search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	history, err := s.repo.LoadFootprints(r.Context(), scope)
	if err != nil {
		s.logger.Error("load footprints", "scope", scope.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load footprints")
		return
	}

	query := r.URL.Query().Get("q")
	matcher, err := footprint.NewMatcher(query, romaji)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	matches := matcher.Filter(history)
	total := len(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Scope:      scope,
		Query:      query,
		Romaji:     romaji,
		Total:      total,
		Footprints: matches,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	if _, err := s.repo.DeleteFootprint(r.Context(), scope, url); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "footprint not found")
			return
		}
		s.logger.Error("delete footprint", "scope", scope.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete footprint")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScopes(w http.ResponseWriter, r *http.Request) {
	scopes, err := s.repo.Scopes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scopes")
		return
	}
	writeJSON(w, http.StatusOK, scopes)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.repo.LoadConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load config")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handlePutConfig merges the request body onto the stored config, so
// fields absent from the body keep their current values.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.repo.LoadConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load config")
		return
	}
	if !decodeBody(w, r, &cfg) {
		return
	}

	if err := s.repo.SaveConfig(r.Context(), cfg); err != nil {
		if errors.Is(err, footprint.ErrInvalidConfig) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save config")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	var mods [3]bool
	for i, name := range []string{"ctrl", "meta", "shift"} {
		v, _, err := boolParam(r, name)
		if err != nil {
			writeError(w, http.StatusBadRequest, name+" must be a boolean")
			return
		}
		mods[i] = v
	}

	cfg, err := s.repo.LoadConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load config")
		return
	}
	open := footprint.CanStartupSearcher(cfg.StartupKeyCombination, mods[0], mods[1], mods[2], r.URL.Query().Get("key"))
	writeJSON(w, http.StatusOK, startupResponse{Open: open, Combination: cfg.StartupKeyCombination.String()})
}

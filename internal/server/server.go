// Package server exposes the priority configuration and ranked inbox over a
// small local HTTP API, used by the desktop client and for scripting.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/triahq/tria/internal/entity"
	"github.com/triahq/tria/internal/item"
	"github.com/triahq/tria/internal/priority"
)

// Server wires the config store and item store into HTTP handlers. Config
// writes are serialized through a single mutex; reads are always served from
// the store so every response reflects the latest committed state.
type Server struct {
	mu      sync.Mutex
	configs *priority.ConfigStore
	items   *item.Store
	scorer  *priority.Scorer
	now     func() time.Time
}

// New creates a server. now may be nil to use time.Now.
func New(configs *priority.ConfigStore, items *item.Store, scorer *priority.Scorer, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{configs: configs, items: items, scorer: scorer, now: now}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config", s.handlePutConfig)
	mux.HandleFunc("POST /api/config/reset", s.handleResetConfig)
	mux.HandleFunc("GET /api/config/presets", s.handleListPresets)
	mux.HandleFunc("POST /api/config/preset/apply", s.handleApplyPreset)
	mux.HandleFunc("GET /api/inbox", s.handleInbox)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

type configResponse struct {
	Config    priority.Config `json:"config"`
	Source    string          `json:"source"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

// configResp attaches the stored row's timestamp when one exists.
func (s *Server) configResp(cfg priority.Config, source string) configResponse {
	resp := configResponse{Config: cfg, Source: source}
	if at, err := s.configs.UpdatedAt(); err == nil && !at.IsZero() {
		resp.UpdatedAt = &at
	}
	return resp
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, source, err := s.configs.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.configResp(cfg, source))
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.configs.Normalize(body)
	if err != nil {
		var verr *priority.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.configs.Save(cfg, priority.SourceAPI); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.configResp(cfg, priority.SourceAPI))
}

type resetRequest struct {
	// Categories limits the reset to those category weights. Empty means
	// every category weight returns to its default; rules, boosts, and the
	// schedule are never touched by a reset.
	Categories []string `json:"categories"`
}

type resetResponse struct {
	Config          priority.Config `json:"config"`
	Source          string          `json:"source"`
	ResetCategories []string        `json:"resetCategories,omitempty"`
}

func (s *Server) handleResetConfig(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, source, err := s.configs.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	next, changed := priority.ResetCategories(cfg, req.Categories)
	if len(changed) > 0 {
		if err := s.configs.Save(next, priority.SourceAPI); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		source = priority.SourceAPI
	}
	writeJSON(w, http.StatusOK, resetResponse{Config: next, Source: source, ResetCategories: changed})
}

type presetSummary struct {
	Slug                 string   `json:"slug"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	RecommendedScenarios []string `json:"recommendedScenarios,omitempty"`
	Adjustments          []string `json:"adjustments,omitempty"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets := priority.Presets()
	out := make([]presetSummary, len(presets))
	for i, p := range presets {
		out[i] = presetSummary{
			Slug:                 p.Slug,
			Name:                 p.Name,
			Description:          p.Description,
			RecommendedScenarios: p.RecommendedScenarios,
			Adjustments:          p.Adjustments,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type applyPresetRequest struct {
	Slug string `json:"slug"`
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req applyPresetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, p, err := priority.ApplyPreset(req.Slug)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown preset %q", req.Slug))
		return
	}
	if err := s.configs.Save(cfg, priority.SourcePreset); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Config priority.Config `json:"config"`
		Source string          `json:"source"`
		Preset presetSummary   `json:"preset"`
	}{cfg, priority.SourcePreset, presetSummary{
		Slug: p.Slug, Name: p.Name, Description: p.Description,
	}})
}

type inboxEntry struct {
	ID      string          `json:"id"`
	Kind    entity.Kind     `json:"kind"`
	Subject string          `json:"subject"`
	Score   priority.Score  `json:"score"`
	Zone    priority.Zone   `json:"zone"`
	Actions []string        `json:"actions,omitempty"`
	Item    entity.Snapshot `json:"item"`
}

func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	opts := item.ListOptions{}
	if k := r.URL.Query().Get("kind"); k != "" {
		kind, err := entity.ParseKind(k)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Kind = kind
	}

	items, err := s.items.List(opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	cfg, _, err := s.configs.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ranked := s.scorer.Rank(items, cfg, s.now())
	out := make([]inboxEntry, len(ranked))
	for i, rk := range ranked {
		entry := inboxEntry{
			ID:      rk.Entity.ID,
			Kind:    rk.Entity.Kind,
			Subject: rk.Entity.Subject,
			Score:   rk.Score,
			Zone:    rk.Zone,
			Item:    rk.Entity,
		}
		for _, a := range s.scorer.SelectActions(rk.Entity, rk.Score.Total, cfg) {
			entry.Actions = append(entry.Actions, a.ID)
		}
		out[i] = entry
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

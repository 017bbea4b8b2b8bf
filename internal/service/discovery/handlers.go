package discovery

import (
	"encoding/json"
	"net/http"
	"strconv"

	svcErr "github.com/amora-app/discovery/internal/errors"
	"github.com/amora-app/discovery/internal/middleware"
)

// swipeRequest is the POST /swipes body.
type swipeRequest struct {
	TargetUserID uint64 `json:"target_user_id"`
	Liked        bool   `json:"liked"`
}

func (s *Service) handleDiscover(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	limit, offset := pageParams(r)
	views, err := s.Discover(r.Context(), userID, limit, offset)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"candidates": views})
}

func (s *Service) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	limit, offset := pageParams(r)
	views, err := s.Recommendations(r.Context(), userID, limit, offset)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"recommendations": views})
}

func (s *Service) handleSwipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svcErr.Respond(w, svcErr.Invalid("malformed request body"))
		return
	}
	if req.TargetUserID == 0 {
		svcErr.Respond(w, svcErr.Invalid("target_user_id is required"))
		return
	}

	result, err := s.RecordSwipe(r.Context(), userID, req.TargetUserID, req.Liked)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Service) handleAdmirers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	var token *string
	if t := r.URL.Query().Get("pagination_token"); t != "" {
		token = &t
	}

	page, err := s.ListAdmirers(r.Context(), userID, token)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (s *Service) handleAdmirerCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	count, err := s.CountAdmirers(r.Context(), userID)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (s *Service) handleMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		svcErr.Respond(w, svcErr.ErrUnauthorized)
		return
	}

	views, err := s.ListMatches(r.Context(), userID)
	if err != nil {
		svcErr.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"matches": views})
}

// pageParams reads limit/offset query params. Unparseable values become 0
// and are normalized by the clamp, so malformed pagination is deterministic.
func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

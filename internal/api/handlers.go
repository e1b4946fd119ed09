package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/cluster-cli/internal/cluster"
	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

const maxBodyBytes = 1 << 20

type clusterSummary struct {
	taxonomy.Cluster
	Members int `json:"members"`
}

type pairRequest struct {
	A model.BusinessProfile `json:"a"`
	B model.BusinessProfile `json:"b"`
}

type pairResponse struct {
	A             model.BusinessProfile     `json:"a"`
	B             model.BusinessProfile     `json:"b"`
	Compatibility model.CompatibilityResult `json:"compatibility"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"taxonomy": s.engine.Taxonomy().Version(),
	})
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	clusters := s.engine.Taxonomy().Clusters()
	out := make([]clusterSummary, len(clusters))
	for i, c := range clusters {
		out[i] = clusterSummary{Cluster: c}
		for _, b := range snap.Businesses {
			if b.InCluster(c.ID) {
				out[i].Members++
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBusinesses(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Businesses)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	b, ok := snap.Business(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Recommendations(b, snap.Businesses, limit))
}

func (s *Server) handleBusinessSpaces(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	b, ok := snap.Business(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}

	matches, err := s.engine.CompatibleSpaces(b, snap.Spaces)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleSpaces(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	if id := r.URL.Query().Get("cluster"); id != "" {
		if _, ok := s.engine.Taxonomy().Cluster(id); !ok {
			writeError(w, http.StatusBadRequest, "unknown cluster")
			return
		}
		spaces := cluster.SpacesForCluster(id, snap.Spaces)
		if spaces == nil {
			spaces = []model.Space{}
		}
		writeJSON(w, http.StatusOK, spaces)
		return
	}
	writeJSON(w, http.StatusOK, snap.Spaces)
}

func (s *Server) handleSpaceCompatibility(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("business")
	if businessID == "" {
		writeError(w, http.StatusBadRequest, "business query parameter is required")
		return
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	space, ok := snap.Space(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "space not found")
		return
	}
	b, ok := snap.Business(businessID)
	if !ok {
		writeError(w, http.StatusNotFound, "business not found")
		return
	}

	res, err := s.engine.BusinessSpaceCompatibility(b, &space)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	var user *model.BusinessProfile
	if id := r.URL.Query().Get("business"); id != "" {
		b, ok := snap.Business(id)
		if !ok {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		user = &b
	}
	writeJSON(w, http.StatusOK, s.engine.Analyze(snap.Recommendations, user))
}

func (s *Server) handlePairCompatibility(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, p := range []model.BusinessProfile{req.A, req.B} {
		if err := model.Validate(p); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	pair := s.engine.Affiliate([]model.BusinessProfile{req.A, req.B})
	writeJSON(w, http.StatusOK, pairResponse{
		A:             pair[0],
		B:             pair[1],
		Compatibility: s.engine.PairCompatibility(pair[0], pair[1]),
	})
}

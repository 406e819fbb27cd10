// Package server exposes the formula engine over HTTP: a single evaluate
// endpoint backed by a formula.CellStore, a health check, a token-issuing
// endpoint, and a bearer-token auth layer in front of the evaluate endpoint
// only.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/cases"

	"github.com/dekarrin/formulaengine/formula"
)

// Server holds the engine's runtime dependencies: a cell store, a function
// registry, and a parse cache shared across requests.
type Server struct {
	store     formula.CellStore
	registry  *formula.Registry
	cache     *formula.FormulaCache
	jwtSecret []byte
	apiKeyHash []byte
	caseFold  cases.Caser
}

// New builds a Server. apiKeyHashStr is a bcrypt hash as produced by
// HashAPIKey; jwtSecret signs issued tokens.
func New(store formula.CellStore, apiKeyHashStr string, jwtSecret string) *Server {
	return &Server{
		store:      store,
		registry:   formula.NewRegistry(),
		cache:      formula.NewFormulaCache(),
		jwtSecret:  []byte(jwtSecret),
		apiKeyHash: []byte(apiKeyHashStr),
		caseFold:   cases.Fold(),
	}
}

// Router builds the chi router exposing this server's endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/v1/healthz", s.handleHealthz)
	r.Post("/v1/token", s.handleIssueToken)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/v1/evaluate", s.handleEvaluate)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type issueTokenRequest struct {
	APIKey string `json:"api_key"`
}

type issueTokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	token, err := s.IssueToken(req.APIKey)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid api key")
		return
	}

	writeJSON(w, http.StatusOK, issueTokenResponse{Token: token})
}

// evaluateRequest's Sheet field is accepted for forward compatibility but
// currently must name the default sheet: cross-sheet references are a
// non-goal of this engine, so any other sheet name is rejected rather than
// silently ignored.
type evaluateRequest struct {
	Formula string `json:"formula"`
	Sheet   string `json:"sheet"`
}

type evaluateResponse struct {
	Value string `json:"value"`
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

const defaultSheetName = "Sheet1"

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Formula == "" {
		writeError(w, http.StatusBadRequest, "formula must not be empty")
		return
	}
	if req.Sheet != "" && s.caseFold.String(req.Sheet) != s.caseFold.String(defaultSheetName) {
		writeError(w, http.StatusBadRequest, "cross-sheet references are not supported")
		return
	}

	root, err := s.cache.Parse(req.Formula)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	formula.InferTypes(root, s.registry)
	result := formula.Evaluate(root, s.store, s.registry)

	resp := evaluateResponse{Type: result.Type().String()}
	if result.IsError() {
		resp.Error = result.ErrorCode().String()
	} else {
		resp.Value = result.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

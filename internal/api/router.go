package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmelojr/Diagnos/internal/middleware"
	"github.com/dmelojr/Diagnos/internal/services"
	"github.com/dmelojr/Diagnos/internal/utils"
)

// Router wires the HTTP surface to the services. Handlers decode requests,
// resolve the caller identity and translate ServiceErrors to status codes;
// all rules live in the services.
type Router struct {
	store    Store
	auth     *services.AuthService
	catalog  *services.CatalogService
	diag     *services.DiagnosticService
	settings *services.SettingsService
	history  *services.AnalyticsService
}

func NewRouter(store Store) *Router {
	diagStore := newDiagnosticStoreAdapter(store)
	ttl := time.Duration(utils.EnvInt("DIAGNOS_TOKEN_TTL_HOURS", 720)) * time.Hour
	return &Router{
		store:    store,
		auth:     services.NewAuthService(newAuthStoreAdapter(store), middleware.SignToken, ttl),
		catalog:  services.NewCatalogService(newCatalogStoreAdapter(store)),
		diag:     services.NewDiagnosticService(diagStore, services.NeutralExcludedFromMax),
		settings: services.NewSettingsService(newSettingsStoreAdapter(store)),
		history:  services.NewAnalyticsService(diagStore),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister)        // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)              // POST
	mux.HandleFunc("/api/catalog", rt.handleCatalog)               // GET
	mux.HandleFunc("/api/pillars", rt.handlePillars)               // GET/POST
	mux.HandleFunc("/api/pillars/", rt.handlePillarScoped)         // PUT/DELETE /api/pillars/{id}
	mux.HandleFunc("/api/questions", rt.handleQuestions)           // POST
	mux.HandleFunc("/api/questions/", rt.handleQuestionScoped)     // PUT/DELETE /api/questions/{id}
	mux.HandleFunc("/api/diagnostics", rt.handleDiagnostics)       // POST/GET
	mux.HandleFunc("/api/diagnostics/", rt.handleDiagnosticScoped) // GET/DELETE /api/diagnostics/{id}, GET summary|export
	mux.HandleFunc("/api/settings", rt.handleSettings)             // GET/PUT
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/catalog: every pillar with its questions, one consistent read.
func (rt *Router) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, err := rt.catalog.Snapshot(callerIdentity(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GET /api/pillars lists ordered pillars with questions; POST creates one.
func (rt *Router) handlePillars(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pillars, err := rt.catalog.ListPillars(callerIdentity(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pillars)
	case http.MethodPost:
		var p services.Pillar
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := rt.catalog.CreatePillar(callerIdentity(r), &p)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// PUT/DELETE /api/pillars/{id}
func (rt *Router) handlePillarScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/pillars/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var p services.Pillar
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		updated, err := rt.catalog.UpdatePillar(callerIdentity(r), id, &p)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := rt.catalog.DeletePillar(callerIdentity(r), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/questions
func (rt *Router) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var q services.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := rt.catalog.CreateQuestion(callerIdentity(r), &q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PUT/DELETE /api/questions/{id}
func (rt *Router) handleQuestionScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/questions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var q services.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		updated, err := rt.catalog.UpdateQuestion(callerIdentity(r), id, &q)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := rt.catalog.DeleteQuestion(callerIdentity(r), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/diagnostics submits answers; GET /api/diagnostics lists own history.
func (rt *Router) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			CompanyData map[string]any    `json:"company_data"`
			Answers     map[string]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, err := rt.diag.Submit(callerIdentity(r), req.CompanyData, req.Answers)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	case http.MethodGet:
		results, err := rt.diag.List(callerIdentity(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET/DELETE /api/diagnostics/{id}, GET /api/diagnostics/summary,
// GET /api/diagnostics/export
func (rt *Router) handleDiagnosticScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/diagnostics/")
	if rest == "" || strings.Contains(rest, "/") {
		http.NotFound(w, r)
		return
	}
	switch rest {
	case "summary":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		summary, err := rt.history.Summary(callerIdentity(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
		return
	case "export":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		results, err := rt.diag.List(callerIdentity(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		b, err := services.ExportResultsCSV(results)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=diagnostics.csv")
		_, _ = w.Write(b)
		return
	}
	switch r.Method {
	case http.MethodGet:
		result, err := rt.diag.Get(callerIdentity(r), rest)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case http.MethodDelete:
		if err := rt.diag.Delete(callerIdentity(r), rest); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET/PUT /api/settings
func (rt *Router) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		st, err := rt.settings.Get(callerIdentity(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	case http.MethodPut:
		var req struct {
			Logo       string `json:"logo"`
			NavbarLogo string `json:"navbar_logo"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		st, err := rt.settings.Update(callerIdentity(r), req.Logo, req.NavbarLogo)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func callerIdentity(r *http.Request) services.Identity {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return services.Identity{}
	}
	return services.Identity{UserID: claims.UID, Role: claims.Role}
}

func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		http.Error(w, se.Message, statusForCode(se.Code))
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorUnauthenticated, services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

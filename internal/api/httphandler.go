package api

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"paneld/internal/directory"
	"paneld/internal/ports"
	"paneld/internal/sessions"
	"paneld/internal/types"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// SessionCookieName carries the admin session token. HTTP-only, SameSite Lax.
const SessionCookieName = "paneld_session"

type Handler struct {
	Config    types.Config
	Directory *directory.Facade
	Sessions  ports.SessionStore
}

func NewHandler(cfg types.Config, dir *directory.Facade, sess ports.SessionStore) *Handler {
	return &Handler{
		Config:    cfg,
		Directory: dir,
		Sessions:  sess,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/auth", h.handleLogin)
	r.Post("/api/auth/logout", h.handleLogout)
	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/api/clients", h.handleListClients)
		r.Post("/api/clients", h.handleCreateClient)
	})
	return gzhttp.GzipHandler(r)
}

// requireSession gates the clients API on a valid session cookie and threads
// the token into the request context for the storage-level guard.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookieName)
		if err != nil || c.Value == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		valid, err := h.Sessions.Validate(r.Context(), c.Value)
		if err != nil {
			log.WithError(err).Error("session validation failed")
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !valid {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(sessions.WithToken(r.Context(), c.Value)))
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil || len(body) == 0 {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(h.Config.AdminUser))
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(h.Config.AdminPass))
	if userOK&passOK != 1 {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	token, err := h.Sessions.Issue(r.Context(), h.Config.SessionTTL)
	if err != nil {
		log.WithError(err).Error("failed to issue session")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.Config.SessionTTL.Seconds()),
	})
	if err := writeJSON(w, http.StatusOK, map[string]any{"ok": true}); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		if err := h.Sessions.Revoke(r.Context(), c.Value); err != nil {
			log.WithError(err).Warn("failed to revoke session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	records, err := h.Directory.ListClients(r.Context())
	if err != nil {
		// Only the storage-level auth guard errors here; backend failures
		// already degraded to an empty list inside the facade.
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := writeJSON(w, http.StatusOK, records); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
	}
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil || len(body) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid")
		return
	}
	var in types.CreateClientInput
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid")
		return
	}
	rec, err := h.Directory.CreateClient(r.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid")
		return
	case errors.Is(err, types.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	default:
		writeError(w, http.StatusBadGateway, "client store unavailable")
		return
	}
	if err := writeJSON(w, http.StatusCreated, rec); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
	}
}

func readBody(r *http.Request) ([]byte, error) {
	defer func() {
		_ = r.Body.Close()
	}()
	return io.ReadAll(io.LimitReader(r.Body, 1<<20))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// writeError mirrors the panel's {"error": "..."} body shape.
func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

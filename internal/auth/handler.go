package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
	"github.com/sabai-pos/sabai-pos/internal/shared"
)

// Handler exposes login, session introspection and the auth middleware.
type Handler struct {
	service  *Service
	tokens   *shared.TokenManager
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler wires the auth handler.
func NewHandler(service *Service, tokens *shared.TokenManager, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// Login exchanges credentials for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == shared.ErrInvalidCredentials {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid username or password")
			return
		}
		h.logger.Error("login failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	profile, err := h.service.ProfileFor(r.Context(), user)
	if err != nil {
		h.logger.Error("profile lookup failed", "error", err, "user", user.Username)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	identity := shared.Identity{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		BranchCode: user.BranchCode,
	}
	token, err := h.tokens.Issue(r.Context(), identity)
	if err != nil {
		h.logger.Error("token issue failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	h.logger.Info("user logged in", "user", user.Username, "branch", user.BranchCode)
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, Profile: profile})
}

// Me returns the identity bound to the current token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, identity)
}

// Logout revokes the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" {
		if err := h.tokens.Revoke(r.Context(), token); err != nil {
			h.logger.Warn("token revoke failed", "error", err)
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Authenticate resolves the bearer token and attaches the identity to the
// request context. Requests without a valid token are rejected.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		identity, err := h.tokens.Resolve(r.Context(), token)
		if err != nil {
			if err == shared.ErrTokenExpired {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "session expired")
				return
			}
			h.logger.Error("token resolve failed", "error", err)
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireAdmin rejects requests whose identity does not carry the Admin role.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := shared.IdentityFromContext(r.Context())
		if identity == nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		if !identity.IsAdmin() {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

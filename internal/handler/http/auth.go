package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/token"
	"github.com/MxSGameJPS/minhaloja-valorfinal/pkg/httputil"
	"github.com/MxSGameJPS/minhaloja-valorfinal/pkg/validator"
)

// AuthHandler handles the marketplace account-connection endpoints.
type AuthHandler struct {
	store  *token.Store
	logger *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(store *token.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		store:  store,
		logger: logger,
	}
}

// ExchangeRequest is the JSON request body for the authorization-code exchange.
type ExchangeRequest struct {
	Code string `json:"code" validate:"required"`
}

// Exchange handles POST /api/v1/auth/exchange. Trades the OAuth
// authorization code for the token pair and stores it.
func (h *AuthHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.store.Exchange(r.Context(), req.Code); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]bool{"connected": true},
	})
}

// Status handles GET /api/v1/auth/status. Reports whether a marketplace
// account is connected.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	connected, err := h.store.Connected(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]bool{"connected": connected},
	})
}

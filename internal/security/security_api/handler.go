package security_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"
	"omnia-tickets/internal/purchase"
	"omnia-tickets/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Door-side messages are shown to security staff in Georgian.
const (
	msgTicketNotFound  = "ბილეთი ვერ მოიძებნა"
	msgAlreadyUsed     = "ბილეთი უკვე გამოყენებულია"
	msgNotYetConfirmed = "ბილეთი ჯერ არ არის დადასტურებული"
)

type SecurityService interface {
	Verify(ctx context.Context, code string) (*models.Purchase, error)
	Redeem(ctx context.Context, code string) (*models.Purchase, error)
}

type Handler struct {
	Security SecurityService
	Logger   *logger.Logger
}

// VerifyCode looks a purchase up by confirmation code without redeeming it.
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	p, err := h.Security.Verify(r.Context(), code)
	if err != nil {
		h.writeError(w, code, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// UseCode redeems a confirmed purchase at the door.
func (h *Handler) UseCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	p, err := h.Security.Redeem(r.Context(), code)
	if err != nil {
		h.writeError(w, code, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) writeError(w http.ResponseWriter, code string, err error) {
	switch {
	case errors.Is(err, purchase.ErrPurchaseNotFound):
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"message": msgTicketNotFound})
	case errors.Is(err, purchase.ErrAlreadyUsed):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": msgAlreadyUsed})
	case errors.Is(err, purchase.ErrNotYetConfirmed):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": msgNotYetConfirmed})
	default:
		h.Logger.Error("HTTP", fmt.Sprintf("verify code %s: %v", code, err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
	}
}

package admin_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"omnia-tickets/internal/auth"
	"omnia-tickets/internal/inventory"
	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"
	"omnia-tickets/internal/purchase"
	"omnia-tickets/internal/utils"

	"github.com/go-chi/chi/v5"
)

type AdminService interface {
	Confirm(ctx context.Context, id string) (*models.Purchase, bool, error)
	Reject(ctx context.Context, id string) (*models.Purchase, error)
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	UpdateSettings(ctx context.Context, update inventory.SettingsUpdate) (*models.TicketOffering, error)
	Reset(ctx context.Context) (int64, *models.TicketOffering, error)
}

type Handler struct {
	Admin  AdminService
	Auth   *auth.Admin
	Logger *logger.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid request body"})
		return
	}

	token, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid Credentials"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, emailSent, err := h.Admin.Confirm(r.Context(), id)
	if err != nil {
		h.writePurchaseError(w, "confirm", id, err)
		return
	}

	msg := "Purchase confirmed and email sent"
	if !emailSent {
		msg = "Purchase confirmed, but email sending failed"
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"msg":       msg,
		"emailSent": emailSent,
		"purchase":  p,
	})
}

func (h *Handler) RejectPurchase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Admin.Reject(r.Context(), id)
	if err != nil {
		h.writePurchaseError(w, "reject", id, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"msg":      "Purchase rejected",
		"purchase": p,
	})
}

func (h *Handler) writePurchaseError(w http.ResponseWriter, action, id string, err error) {
	switch {
	case errors.Is(err, purchase.ErrPurchaseNotFound):
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"msg": "Purchase not found"})
	case errors.Is(err, purchase.ErrInvalidTransition):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": err.Error()})
	case errors.Is(err, inventory.ErrInsufficientStock):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "Not enough tickets available"})
	default:
		h.Logger.Error("HTTP", fmt.Sprintf("%s purchase %s: %v", action, id, err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.Admin.ListPurchases(r.Context())
	if err != nil {
		h.Logger.Error("HTTP", fmt.Sprintf("list purchases: %v", err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, purchases)
}

// updateSettingsRequest tolerates clients sending numbers as strings or
// leaving them blank; either way they coerce to zero.
type updateSettingsRequest struct {
	TotalTickets  json.RawMessage `json:"totalTickets"`
	Price         json.RawMessage `json:"price"`
	EventName     *string         `json:"eventName"`
	LocationTitle *string         `json:"locationTitle"`
	LocationText  *string         `json:"locationText"`
	LineupTitle   *string         `json:"lineupTitle"`
	LineupText    *string         `json:"lineupText"`
	PromoText     *string         `json:"promoText"`
}

// coerceInt parses a JSON number or numeric string; anything else is 0.
func coerceInt(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(n)
}

func coerceFloat(raw json.RawMessage) float64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid request body"})
		return
	}

	offering, err := h.Admin.UpdateSettings(r.Context(), inventory.SettingsUpdate{
		TotalTickets:  coerceInt(req.TotalTickets),
		Price:         coerceFloat(req.Price),
		EventName:     req.EventName,
		LocationTitle: req.LocationTitle,
		LocationText:  req.LocationText,
		LineupTitle:   req.LineupTitle,
		LineupText:    req.LineupText,
		PromoText:     req.PromoText,
	})
	if err != nil {
		h.Logger.Error("HTTP", fmt.Sprintf("update settings: %v", err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, offering)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	deleted, offering, err := h.Admin.Reset(r.Context())
	if err != nil {
		h.Logger.Error("HTTP", fmt.Sprintf("reset purchases: %v", err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"msg":      fmt.Sprintf("Deleted %d purchase(s), stock reset", deleted),
		"deleted":  deleted,
		"offering": offering,
	})
}

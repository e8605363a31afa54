package purchase_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"omnia-tickets/internal/inventory"
	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"
	"omnia-tickets/internal/purchase"
	"omnia-tickets/internal/uploads"
	"omnia-tickets/internal/utils"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const maxReceiptSize = 10 << 20 // 10 MiB multipart memory cap

type PurchaseService interface {
	Submit(ctx context.Context, req purchase.SubmitRequest) (*models.Purchase, error)
	GetByCode(ctx context.Context, code string) (*models.Purchase, error)
}

type OfferingReader interface {
	ActiveOffering(ctx context.Context) (*models.TicketOffering, error)
}

type Handler struct {
	Purchases PurchaseService
	Inventory OfferingReader
	Storage   uploads.Storage
	Logger    *logger.Logger
}

// GetOffering serves the public landing-page payload. When the store holds
// no offering at all the hard-coded default presentation object goes out
// instead, so the page always renders.
func (h *Handler) GetOffering(w http.ResponseWriter, r *http.Request) {
	offering, err := h.Inventory.ActiveOffering(r.Context())
	if errors.Is(err, inventory.ErrNoOffering) {
		fallback := models.DefaultOffering()
		utils.WriteJSON(w, http.StatusOK, fallback)
		return
	}
	if err != nil {
		h.Logger.Error("HTTP", fmt.Sprintf("read offering: %v", err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, offering)
}

// SubmitPurchase accepts the multipart purchase form: identity fields,
// quantity, payment method and the bank-transfer receipt image.
func (h *Handler) SubmitPurchase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid form data"})
		return
	}

	quantity, err := strconv.Atoi(r.FormValue("ticketQuantity"))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid ticket quantity"})
		return
	}

	receiptPath := ""
	file, header, err := r.FormFile("receipt")
	if err == nil {
		defer file.Close()
		receiptPath, err = h.Storage.Save(header.Filename, file)
		if err != nil {
			h.Logger.Error("UPLOAD", fmt.Sprintf("store receipt: %v", err))
			http.Error(w, "Server Error", http.StatusInternalServerError)
			return
		}
	}

	p, err := h.Purchases.Submit(r.Context(), purchase.SubmitRequest{
		FullName:       r.FormValue("fullName"),
		PersonalID:     r.FormValue("personalId"),
		Email:          r.FormValue("email"),
		TicketQuantity: quantity,
		PaymentMethod:  r.FormValue("paymentMethod"),
		Receipt:        receiptPath,
	})
	if err != nil {
		var vErr *purchase.ValidationError
		switch {
		case errors.As(err, &vErr):
			utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": vErr.Error()})
		case errors.Is(err, inventory.ErrInsufficientStock):
			utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "Not enough tickets available"})
		default:
			h.Logger.Error("HTTP", fmt.Sprintf("submit purchase: %v", err))
			http.Error(w, "Server Error", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

// GetQRCode renders the confirmation code as a PNG the buyer can present
// at the door instead of typing the code.
func (h *Handler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if _, err := h.Purchases.GetByCode(r.Context(), code); err != nil {
		if errors.Is(err, purchase.ErrPurchaseNotFound) {
			http.Error(w, "purchase not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("HTTP", fmt.Sprintf("qr lookup: %v", err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		h.Logger.Error("HTTP", fmt.Sprintf("qr encode: %v", err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

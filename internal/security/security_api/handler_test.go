package security_api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"
	"omnia-tickets/internal/purchase"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSecurityService struct {
	mock.Mock
}

func (m *MockSecurityService) Verify(ctx context.Context, code string) (*models.Purchase, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func (m *MockSecurityService) Redeem(ctx context.Context, code string) (*models.Purchase, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func codeRequest(method, path, code string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("code", code)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestVerifyCodeReturnsPurchase(t *testing.T) {
	svc := new(MockSecurityService)
	h := &Handler{Security: svc, Logger: logger.NewNop()}

	svc.On("Verify", mock.Anything, "AB12CD").
		Return(&models.Purchase{ID: "p1", ConfirmationCode: "AB12CD", Status: models.StatusConfirmed}, nil)

	rec := httptest.NewRecorder()
	h.VerifyCode(rec, codeRequest(http.MethodGet, "/api/security/verify/AB12CD", "AB12CD"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AB12CD")
}

func TestVerifyCodeNotFoundMessage(t *testing.T) {
	svc := new(MockSecurityService)
	h := &Handler{Security: svc, Logger: logger.NewNop()}

	svc.On("Verify", mock.Anything, "NOPE99").Return(nil, purchase.ErrPurchaseNotFound)

	rec := httptest.NewRecorder()
	h.VerifyCode(rec, codeRequest(http.MethodGet, "/api/security/verify/NOPE99", "NOPE99"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), msgTicketNotFound)
}

func TestUseCodeErrorMessages(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", purchase.ErrPurchaseNotFound, http.StatusNotFound, msgTicketNotFound},
		{"already used", purchase.ErrAlreadyUsed, http.StatusBadRequest, msgAlreadyUsed},
		{"not yet confirmed", purchase.ErrNotYetConfirmed, http.StatusBadRequest, msgNotYetConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSecurityService)
			h := &Handler{Security: svc, Logger: logger.NewNop()}
			svc.On("Redeem", mock.Anything, "AB12CD").Return(nil, tt.err)

			rec := httptest.NewRecorder()
			h.UseCode(rec, codeRequest(http.MethodPost, "/api/security/use/AB12CD", "AB12CD"))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestUseCodeRedeems(t *testing.T) {
	svc := new(MockSecurityService)
	h := &Handler{Security: svc, Logger: logger.NewNop()}

	svc.On("Redeem", mock.Anything, "AB12CD").
		Return(&models.Purchase{ID: "p1", ConfirmationCode: "AB12CD", Status: models.StatusUsed}, nil)

	rec := httptest.NewRecorder()
	h.UseCode(rec, codeRequest(http.MethodPost, "/api/security/use/AB12CD", "AB12CD"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.StatusUsed)
}

package intake

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"inkwell/internal/auth"
	"inkwell/internal/domain"
)

func newRouter(svc *Service) http.Handler {
	ctrl := NewController(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/intake", ctrl.Submit)
	r.Get("/api/admin/intake/{orderId}", ctrl.GetByOrder)
	return r
}

const submitBody = `{
		"orderId": 5,
		"fullName": "Jane Doe",
		"email": "jane@example.com",
		"phone": "0400 000 000",
		"currentRole": "Analyst",
		"targetRole": "Product Manager",
		"industry": "Finance",
		"yearsExperience": 8,
		"careerGoals": "Move into product"
	}`

func TestSubmitThenGet(t *testing.T) {
	router := newRouter(NewService(&memoryRepository{}, existingOrder(), zap.NewNop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader(submitBody)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/intake/5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"industry":"Finance"`)
}

func TestSubmit_InvalidFormIs400(t *testing.T) {
	router := newRouter(NewService(&memoryRepository{}, existingOrder(), zap.NewNop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader(`{"orderId": 5}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "contact.fullName")
}

func TestGetByOrder_Missing(t *testing.T) {
	router := newRouter(NewService(&memoryRepository{}, existingOrder(), zap.NewNop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/intake/9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmit_RejectionStatuses(t *testing.T) {
	owner := "user-1"
	tests := []struct {
		name   string
		order  domain.Order
		caller auth.Identity
		want   int
	}{
		{"another user's order", domain.Order{Status: domain.OrderStatusCompleted, UserID: &owner}, auth.Identity{UserID: "user-2"}, http.StatusForbidden},
		{"unpaid order", domain.Order{Status: domain.OrderStatusPending, UserID: &owner}, auth.Identity{UserID: owner}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(NewService(&memoryRepository{}, ordersReturning(tt.order), zap.NewNop()))
			req := httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader(submitBody))
			req = req.WithContext(auth.WithIdentity(req.Context(), tt.caller))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

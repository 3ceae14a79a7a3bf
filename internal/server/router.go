package server

import (
	"context"
	"net/http"
	"time"

	"inkwell/internal/auth"
	cartcontroller "inkwell/internal/cart/controller"
	"inkwell/internal/catalog"
	"inkwell/internal/commons"
	"inkwell/internal/intake"
	"inkwell/internal/notification"
	ordercontroller "inkwell/internal/order/controller"
	"inkwell/internal/promo"
	"inkwell/internal/webhook"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// Pinger is anything /health should check, such as the database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Controllers struct {
	Catalog   *catalog.Controller
	Cart      *cartcontroller.CartController
	Auth      *auth.Controller
	Promo     *promo.Controller
	Payments  *ordercontroller.PaymentController
	Orders    *ordercontroller.OrdersController
	Intake    *intake.Controller
	EmailLogs *notification.Controller
	Webhook   *webhook.Controller
}

func NewRouter(c Controllers, db Pinger, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", health(db, logger))

	// PayPal calls this directly; no guest cookie.
	r.Post("/api/webhooks/paypal", c.Webhook.HandlePayPal)

	r.Group(func(r chi.Router) {
		r.Use(auth.Identify(logger))

		r.Get("/api/services", c.Catalog.HandleGetAllServices)
		r.Get("/api/services/{slug}", c.Catalog.HandleGetServiceBySlug)

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", c.Cart.GetCart)
			r.Delete("/", c.Cart.ClearCart)
			r.Post("/items", c.Cart.AddItem)
			r.Patch("/items/{itemId}", c.Cart.UpdateItem)
			r.Delete("/items/{itemId}", c.Cart.RemoveItem)
		})

		r.Route("/api/auth", func(r chi.Router) {
			r.Get("/me", c.Auth.HandleMe)
			r.Post("/login", c.Auth.HandleLogin)
			r.Post("/logout", c.Auth.HandleLogout)
		})

		r.Post("/api/promo-codes/validate", c.Promo.HandleValidate)

		r.Post("/api/payment/orders", c.Payments.CreateOrder)
		r.Post("/api/payment/capture", c.Payments.CaptureOrder)

		r.Post("/api/intake", c.Intake.Submit)

		r.Route("/api/orders", func(r chi.Router) {
			r.Use(auth.RequireUser(logger))
			r.Get("/mine", c.Orders.GetMine)
			r.Get("/{orderId}", c.Orders.GetByID)
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin(logger))
			r.Get("/orders", c.Orders.List)
			r.Get("/orders/statistics", c.Orders.Statistics)
			r.Patch("/orders/{orderId}/status", c.Orders.UpdateStatus)
			r.Delete("/orders/{orderId}", c.Orders.Delete)
			r.Get("/email-logs", c.EmailLogs.List)
			r.Get("/intake/{orderId}", c.Intake.GetByOrder)
		})
	})

	return otelhttp.NewHandler(r, "inkwell")
}

func health(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			commons.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, logger)
			return
		}
		commons.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}

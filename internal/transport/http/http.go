package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/store"
	"github.com/gal-ch/green-market/internal/service/services/closingsvc"
	closeday "github.com/gal-ch/green-market/internal/transport/http/close_day"
	createorder "github.com/gal-ch/green-market/internal/transport/http/create_order"
	exportorders "github.com/gal-ch/green-market/internal/transport/http/export_orders"
	listorders "github.com/gal-ch/green-market/internal/transport/http/list_orders"
	liststores "github.com/gal-ch/green-market/internal/transport/http/list_stores"
	"github.com/gal-ch/green-market/pkg/http/middleware/auth"
	"github.com/gal-ch/green-market/pkg/http/middleware/trace"
	"github.com/gal-ch/green-market/pkg/logger"
)

type orderService interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	BatchInsert(ctx context.Context, orders []order.Order) ([]order.Order, error)
}

type storeService interface {
	GetStores(ctx context.Context, filter *store.QueryStoresModel) ([]store.Store, error)
}

type closingService interface {
	CloseDay(ctx context.Context, accountID int64, storeIDs []int64) closingsvc.CloseDayResult
}

type orderEncoder interface {
	Orders(orders []order.Order) ([]byte, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	orders  orderService
	stores  storeService
	closing closingService
	encoder orderEncoder
}

func NewHTTPTransport(
	orders orderService,
	stores storeService,
	closing closingService,
	encoder orderEncoder,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		orders:  orders,
		stores:  stores,
		closing: closing,
		encoder: encoder,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Use(auth.NewAuthMiddleware())

		r.Get("/stores", h.listStores)
		r.Post("/stores/close-day", h.closeDay)
		r.Get("/orders", h.listOrders)
		r.Post("/orders", h.createOrders)
		r.Get("/orders/export", h.exportOrders)
	})
}

func (h *HTTPTransport) closeDay(w http.ResponseWriter, r *http.Request) {
	closeday.CloseDay(w, r, h.closing)
}

func (h *HTTPTransport) listStores(w http.ResponseWriter, r *http.Request) {
	liststores.ListStores(w, r, h.stores)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) createOrders(w http.ResponseWriter, r *http.Request) {
	createorder.BatchInsert(w, r, h.orders)
}

func (h *HTTPTransport) exportOrders(w http.ResponseWriter, r *http.Request) {
	exportorders.ExportOrders(w, r, h.orders, h.encoder)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}

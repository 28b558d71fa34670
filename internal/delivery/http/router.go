package http

import (
	"net/http"

	"clinic-inventory/internal/delivery/http/handler"
	"clinic-inventory/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	drugHandler       *handler.DrugHandler
	messageHandler    *handler.MessageHandler
	dashboardHandler  *handler.DashboardHandler
	sessionMiddleware *middleware.SessionMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	metricsMiddleware *middleware.MetricsMiddleware
	rateLimit         *middleware.RateLimitMiddleware
	metricsGatherer   prometheus.Gatherer
}

func NewRouter(
	authHandler *handler.AuthHandler,
	drugHandler *handler.DrugHandler,
	messageHandler *handler.MessageHandler,
	dashboardHandler *handler.DashboardHandler,
	sessionMiddleware *middleware.SessionMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	metricsGatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		drugHandler:       drugHandler,
		messageHandler:    messageHandler,
		dashboardHandler:  dashboardHandler,
		sessionMiddleware: sessionMiddleware,
		corsMiddleware:    corsMiddleware,
		metricsMiddleware: metricsMiddleware,
		rateLimit:         rateLimit,
		metricsGatherer:   metricsGatherer,
	}
}

func (r *Router) Setup() *mux.Router {
	// Health check and metrics
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	r.router.Handle("/metrics", promhttp.HandlerFor(r.metricsGatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Public routes
	r.router.HandleFunc("/", r.authHandler.Index).Methods(http.MethodGet)
	r.router.HandleFunc("/login", r.authHandler.LoginForm).Methods(http.MethodGet)
	r.router.Handle("/login", r.rateLimit.Handle(http.HandlerFunc(r.authHandler.Login))).Methods(http.MethodPost)
	r.router.HandleFunc("/signup", r.authHandler.SignupForm).Methods(http.MethodGet)
	r.router.Handle("/signup", r.rateLimit.Handle(http.HandlerFunc(r.authHandler.Signup))).Methods(http.MethodPost)

	// Protected routes
	protected := r.router.PathPrefix("/").Subrouter()
	protected.Use(r.sessionMiddleware.Authenticate)
	protected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard", r.dashboardHandler.Dashboard).Methods(http.MethodGet)

	protected.HandleFunc("/drugs", r.drugHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/add_drug", r.drugHandler.AddForm).Methods(http.MethodGet)
	protected.HandleFunc("/add_drug", r.drugHandler.Add).Methods(http.MethodPost)
	protected.HandleFunc("/edit_drug/{id}", r.drugHandler.EditForm).Methods(http.MethodGet)
	protected.HandleFunc("/edit_drug/{id}", r.drugHandler.Edit).Methods(http.MethodPost)
	protected.HandleFunc("/delete_drug/{id}", r.drugHandler.Delete).Methods(http.MethodGet)

	protected.HandleFunc("/messages", r.messageHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/add_message", r.messageHandler.AddForm).Methods(http.MethodGet)
	protected.HandleFunc("/add_message", r.messageHandler.Add).Methods(http.MethodPost)
	protected.HandleFunc("/delete_message/{id}", r.messageHandler.Delete).Methods(http.MethodGet)

	protected.HandleFunc("/api/expiry_alerts", r.drugHandler.ExpiryAlerts).Methods(http.MethodGet)

	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.metricsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

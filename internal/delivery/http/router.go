package http

import (
	"net/http"

	"clinic-appointment-service/internal/delivery/http/handler"
	"clinic-appointment-service/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	serviceHandler     *handler.ServiceHandler
	appointmentHandler *handler.AppointmentHandler
	adminHandler       *handler.AdminAppointmentHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	serviceHandler *handler.ServiceHandler,
	appointmentHandler *handler.AppointmentHandler,
	adminHandler *handler.AdminAppointmentHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		serviceHandler:     serviceHandler,
		appointmentHandler: appointmentHandler,
		adminHandler:       adminHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Service catalog (public, read-only)
	api.HandleFunc("/services", r.serviceHandler.ListServices).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}", r.serviceHandler.GetService).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}/available-slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Booking (anonymous callers allowed; identity used when present)
	booking := api.PathPrefix("/appointments").Subrouter()
	booking.Use(r.authMiddleware.OptionalAuthenticate)
	booking.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)

	// Patient self-service (protected)
	patient := api.PathPrefix("/appointments").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.HandleFunc("", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	patient.HandleFunc("/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	// Staff routes (protected - staff/admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireStaff)

	admin.HandleFunc("/appointments", r.adminHandler.ListAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}/status", r.adminHandler.UpdateStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{id}/cancel", r.adminHandler.CancelAppointment).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{id}/result", r.adminHandler.AttachResult).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{id}/result", r.adminHandler.UpdateResult).Methods(http.MethodPut)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

package http

import (
	"net/http"

	"estate-backend/internal/handlers"
	"estate-backend/internal/middleware"
	"estate-backend/internal/models"
	"estate-backend/internal/ws"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	verificationHandler *handlers.VerificationHandler,
	totpHandler *handlers.TOTPHandler,
	propertyHandler *handlers.PropertyHandler,
	enquiryHandler *handlers.EnquiryHandler,
	reviewHandler *handlers.ReviewHandler,
	notificationHandler *handlers.NotificationHandler,
	mediaHandler *handlers.MediaHandler,
	paymentHandler *handlers.PaymentHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	hub *ws.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/totp/login", totpHandler.CompleteLogin).Methods("POST")

	// Public API routes - Listings (browsing needs no account)
	r.HandleFunc("/api/properties", propertyHandler.Search).Methods("GET")
	r.HandleFunc("/api/properties/{id:[0-9]+}", propertyHandler.Get).Methods("GET")
	r.HandleFunc("/api/properties/{id:[0-9]+}/reviews", reviewHandler.List).Methods("GET")
	r.HandleFunc("/api/properties/{id:[0-9]+}/photos", mediaHandler.PhotoURLs).Methods("GET")

	// Razorpay server-to-server webhook (signature-authenticated)
	r.HandleFunc("/api/payments/webhook", paymentHandler.Webhook).Methods("POST")

	// Protected API routes - Account and channel verification
	accountAPI := r.PathPrefix("/api/account").Subrouter()
	accountAPI.Use(authMiddleware.Authenticate)
	accountAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	accountAPI.HandleFunc("/me", authHandler.UpdateProfile).Methods("PUT")
	accountAPI.HandleFunc("/verification", verificationHandler.Status).Methods("GET")
	accountAPI.HandleFunc("/verification/send-otp", verificationHandler.SendOTP).Methods("POST")
	accountAPI.HandleFunc("/verification/verify-otp", verificationHandler.VerifyOTP).Methods("POST")
	accountAPI.HandleFunc("/totp/setup", totpHandler.Setup).Methods("POST")
	accountAPI.HandleFunc("/totp/enable", totpHandler.Enable).Methods("POST")

	// Protected API routes - Listings
	propertiesAPI := r.PathPrefix("/api/properties").Subrouter()
	propertiesAPI.Use(authMiddleware.Authenticate)
	propertiesAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleOwner, models.RoleAgent, models.RoleAdmin)(http.HandlerFunc(propertyHandler.Create)).ServeHTTP).Methods("POST")
	propertiesAPI.HandleFunc("/mine", propertyHandler.MyListings).Methods("GET")
	propertiesAPI.HandleFunc("/{id:[0-9]+}", propertyHandler.Update).Methods("PUT")
	propertiesAPI.HandleFunc("/{id:[0-9]+}", propertyHandler.Delete).Methods("DELETE")
	propertiesAPI.HandleFunc("/{id:[0-9]+}/photos", mediaHandler.UploadPhoto).Methods("POST")
	propertiesAPI.HandleFunc("/{id:[0-9]+}/reviews", reviewHandler.Create).Methods("POST")

	// Protected API routes - Enquiries
	enquiriesAPI := r.PathPrefix("/api/enquiries").Subrouter()
	enquiriesAPI.Use(authMiddleware.Authenticate)
	enquiriesAPI.HandleFunc("", enquiryHandler.Create).Methods("POST")
	enquiriesAPI.HandleFunc("/inbox", enquiryHandler.Inbox).Methods("GET")
	enquiriesAPI.HandleFunc("/mine", enquiryHandler.Mine).Methods("GET")
	enquiriesAPI.HandleFunc("/{id:[0-9]+}/status", enquiryHandler.UpdateStatus).Methods("PUT")

	// Protected API routes - Notifications
	notificationsAPI := r.PathPrefix("/api/notifications").Subrouter()
	notificationsAPI.Use(authMiddleware.Authenticate)
	notificationsAPI.HandleFunc("", notificationHandler.List).Methods("GET")
	notificationsAPI.HandleFunc("/{id:[0-9]+}/read", notificationHandler.MarkRead).Methods("PUT")

	// Protected API routes - Featured-listing payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/featured", paymentHandler.CreateOrder).Methods("POST")
	paymentsAPI.HandleFunc("/featured/verify", paymentHandler.VerifyPayment).Methods("POST")

	// Protected API routes - Admin
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.HandleFunc("/stats", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(adminHandler.Stats)).ServeHTTP).Methods("GET")
	adminAPI.HandleFunc("/report", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(adminHandler.Report)).ServeHTTP).Methods("GET")
	adminAPI.HandleFunc("/system", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(adminHandler.SystemStats)).ServeHTTP).Methods("GET")
	adminAPI.HandleFunc("/activity-logs", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(adminHandler.ActivityLogs)).ServeHTTP).Methods("GET")
	adminAPI.HandleFunc("/users/{id:[0-9]+}/verification", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(adminHandler.VerificationStatus)).ServeHTTP).Methods("GET")
	adminAPI.HandleFunc("/users/{id:[0-9]+}/unlock", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(adminHandler.UnlockAccount)).ServeHTTP).Methods("POST")

	// Live notifications (token in query parameter)
	r.HandleFunc("/ws/notifications", hub.HandleWS).Methods("GET")

	// Health endpoint (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate-backend/internal/auth"
	"estate-backend/internal/cache"
	"estate-backend/internal/config"
	"estate-backend/internal/database"
	"estate-backend/internal/db"
	"estate-backend/internal/handlers"
	router "estate-backend/internal/http"
	"estate-backend/internal/media"
	"estate-backend/internal/middleware"
	"estate-backend/internal/notify"
	"estate-backend/internal/ratelimit"
	"estate-backend/internal/repositories"
	"estate-backend/internal/services"
	"estate-backend/internal/ws"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	verificationRepo := repositories.NewVerificationRepository(pool)
	propertyRepo := repositories.NewPropertyRepository(pool)
	enquiryRepo := repositories.NewEnquiryRepository(pool)
	reviewRepo := repositories.NewReviewRepository(pool)
	notificationRepo := repositories.NewNotificationRepository(pool)
	activityLogRepo := repositories.NewActivityLogRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)

	jwtManager := auth.NewJWTManager(cfg)
	hub := ws.NewHub(jwtManager)

	// OTP delivery: SMTP for email, Fast2SMS for mobile; the mock sender
	// prints codes to the console when providers are not configured.
	var emailSender notify.CodeSender = notify.NewMockSender()
	if cfg.SMTP.Username != "" {
		emailSender = notify.NewEmailSender(cfg)
	}
	var smsSender notify.CodeSender = notify.NewMockSender()
	if cfg.SMS.Provider == "fast2sms" && cfg.SMS.APIKey != "" {
		smsSender = notify.NewFast2SMSSender(cfg.SMS.APIKey)
	}
	dispatcher := notify.NewDispatcher(emailSender, smsSender)

	limiter := ratelimit.New(cache.GetClient(),
		services.OTPRequestsPerIdentity, services.OTPIdentityWindow)

	// Services
	verificationSvc := services.NewVerificationService(verificationRepo, dispatcher, limiter)
	verificationSvc.SetActivityLogger(activityLogRepo)
	userSvc := services.NewUserService(userRepo, verificationRepo, verificationSvc, jwtManager)
	totpSvc := services.NewTOTPService(userRepo, jwtManager)
	notificationSvc := services.NewNotificationService(notificationRepo, hub)
	propertySvc := services.NewPropertyService(propertyRepo, notificationSvc)
	enquirySvc := services.NewEnquiryService(enquiryRepo, propertyRepo, notificationSvc)
	reviewSvc := services.NewReviewService(reviewRepo, propertyRepo, notificationSvc)
	dashboardSvc := services.NewDashboardService(userRepo, verificationRepo, propertyRepo, enquiryRepo, reviewRepo)
	reportSvc := services.NewReportService(dashboardSvc)
	paymentSvc := services.NewPaymentService(cfg, paymentRepo, propertyRepo, notificationSvc)

	var mediaStore *media.Store
	if cfg.S3.AccessKey != "" {
		store, err := media.NewStore(cfg)
		if err != nil {
			log.Printf("[Media] S3 unavailable, photo uploads disabled: %v", err)
		} else {
			mediaStore = store
		}
	} else {
		log.Printf("[Media] S3 not configured, photo uploads disabled")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userSvc, totpSvc)
	verificationHandler := handlers.NewVerificationHandler(verificationSvc, userSvc)
	totpHandler := handlers.NewTOTPHandler(totpSvc)
	propertyHandler := handlers.NewPropertyHandler(propertySvc, reviewSvc)
	enquiryHandler := handlers.NewEnquiryHandler(enquirySvc)
	reviewHandler := handlers.NewReviewHandler(reviewSvc)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc)
	mediaHandler := handlers.NewMediaHandler(mediaStore, media.NoopModerator{}, propertySvc)
	paymentHandler := handlers.NewPaymentHandler(paymentSvc)
	adminHandler := handlers.NewAdminHandler(dashboardSvc, reportSvc, verificationSvc, activityLogRepo)
	healthHandler := handlers.NewHealthHandler(pool)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	r := router.NewRouter(
		authHandler,
		verificationHandler,
		totpHandler,
		propertyHandler,
		enquiryHandler,
		reviewHandler,
		notificationHandler,
		mediaHandler,
		paymentHandler,
		adminHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(
		corsMiddleware(
			middleware.APILogging(
				middleware.MetricsMiddleware(r),
			),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("[Server] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[Server] forced shutdown: %v", err)
	}
	log.Println("[Server] stopped")
}

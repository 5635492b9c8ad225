package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approveBookingHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/delete_booking"
	getBookingHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/get_booking"
	getSlotGridHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/get_slot_grid"
	getUserBookingsHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/get_user_bookings"
	joinWaitlistHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/join_waitlist"
	listAllocationsHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/list_allocations"
	rejectBookingHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/reject_booking"
	requestAllocationHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/request_allocation"
	rescheduleBookingHandler "github.com/m04kA/CRH-SchedulingService/internal/api/handlers/reschedule_booking"
	"github.com/m04kA/CRH-SchedulingService/internal/api/middleware"
	"github.com/m04kA/CRH-SchedulingService/internal/config"
	approvalRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/approval"
	bookingRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/booking"
	downtimeRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/downtime"
	resourceRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/resource"
	waitlistRepo "github.com/m04kA/CRH-SchedulingService/internal/infra/storage/waitlist"
	identityClient "github.com/m04kA/CRH-SchedulingService/internal/integrations/identity"
	notifySinkClient "github.com/m04kA/CRH-SchedulingService/internal/integrations/notifysink"
	approvalsService "github.com/m04kA/CRH-SchedulingService/internal/service/approvals"
	availabilityService "github.com/m04kA/CRH-SchedulingService/internal/service/availability"
	bookingsService "github.com/m04kA/CRH-SchedulingService/internal/service/bookings"
	waitlistService "github.com/m04kA/CRH-SchedulingService/internal/service/waitlist"
	createBookingUC "github.com/m04kA/CRH-SchedulingService/internal/usecase/create_booking"
	getSlotGridUC "github.com/m04kA/CRH-SchedulingService/internal/usecase/get_slot_grid"
	rescheduleBookingUC "github.com/m04kA/CRH-SchedulingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/CRH-SchedulingService/pkg/logger"
	"github.com/m04kA/CRH-SchedulingService/pkg/metrics"
	"github.com/m04kA/CRH-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CRH-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	identity := identityClient.NewClient(
		cfg.IdentityAPI.URL,
		time.Duration(cfg.IdentityAPI.Timeout)*time.Second,
		log,
	)
	notifier := notifySinkClient.NewClient(
		cfg.NotifySink.URL,
		time.Duration(cfg.NotifySink.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (IdentityAPI=%s timeout=%ds, NotifySink=%s timeout=%ds)",
		cfg.IdentityAPI.URL, cfg.IdentityAPI.Timeout, cfg.NotifySink.URL, cfg.NotifySink.Timeout)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(db)
	resourceRepository := resourceRepo.NewRepository(db)
	downtimeRepository := downtimeRepo.NewRepository(db)
	waitlistRepository := waitlistRepo.NewRepository(db)
	approvalRepository := approvalRepo.NewRepository(db)

	txMgr := txmanager.NewTransactionManager(db)
	timeProvider := &bookingsService.RealTimeProvider{}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		resourceRepository,
		bookingRepository,
		downtimeRepository,
		log,
	)
	waitlistSvc := waitlistService.NewService(
		waitlistRepository,
		bookingRepository,
		resourceRepository,
		approvalRepository,
		availabilitySvc,
		txMgr,
		&waitlistService.RealTimeProvider{},
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		resourceRepository,
		approvalRepository,
		availabilitySvc,
		waitlistSvc,
		identity,
		notifier,
		txMgr,
		timeProvider,
		log,
	)
	approvalSvc := approvalsService.NewService(
		approvalRepository,
		resourceRepository,
		identity,
		&approvalsService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		approvalRepository,
		availabilitySvc,
		identity,
		notifier,
		txMgr,
		log,
	)
	getSlotGridUseCase := getSlotGridUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		downtimeRepository,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		downtimeRepository,
		approvalRepository,
		identity,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilitySvc, log)
	getSlotGrid := getSlotGridHandler.NewHandler(getSlotGridUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, identity, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(waitlistSvc, log)
	requestAllocation := requestAllocationHandler.NewHandler(approvalSvc, log)
	listAllocations := listAllocationsHandler.NewHandler(approvalSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Rate limiter (если включен)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		r.Use(limiter.Handler)
		log.Info("Rate limiter enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка доступности окна на ресурсе
	api.HandleFunc("/resources/{resourceId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// Сетка слотов ресурса (кэшируется)
	slotGridCache := middleware.NewResponseCache(
		time.Duration(cfg.SlotGridView.CacheTTLSeconds) * time.Second)
	api.Handle("/resources/{resourceId}/slot-grid",
		slotGridCache.Handler(http.HandlerFunc(getSlotGrid.Handle))).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования (разовое или с повторением)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Удаление бронирования (только администратор)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// Решения по заявкам на бронирование
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// Перенос бронирования (только администратор)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	protected.HandleFunc("/resources/{resourceId}/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)

	// --- Заявки на выделение ресурса ---
	protected.HandleFunc("/resources/{resourceId}/allocation-requests",
		requestAllocation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/allocation-requests", listAllocations.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

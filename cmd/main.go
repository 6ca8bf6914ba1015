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

	cancelBookingHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/create_booking"
	deleteScheduleHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/delete_schedule"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/get_booking_history"
	getBookingStatsHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/get_booking_stats"
	getResourceBookingsHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/get_resource_bookings"
	getScheduleHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/get_user_bookings"
	processRefundHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/process_refund"
	rateBookingHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/rate_booking"
	recordPaymentHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/record_payment"
	rescheduleBookingHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/update_booking_status"
	updateScheduleHandler "github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-BeautyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BeautyBookingService/internal/config"
	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/cache/slots"
	bookingRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/catalog"
	historyRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/history"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/memory"
	ratingRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/rating"
	scheduleRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BeautyBookingService/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-BeautyBookingService/internal/service/schedule"
	"github.com/m04kA/SMC-BeautyBookingService/internal/usecase/availability"
	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
	rateBookingUC "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/rate_booking"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/logger"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/metrics"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/txmanager"
)

// components собранные use cases и сервисы, не зависящие от выбранного хранилища
type components struct {
	lifecycle    *lifecycle.UseCase
	availability *availability.UseCase
	rating       *rateBookingUC.UseCase
	bookings     *bookingsService.Service
	schedules    *scheduleService.Service
}

// slotCache кэш слотов: чтение для расчета доступности, сброс при изменении бронирований
type slotCache interface {
	availability.SlotCache
	lifecycle.SlotCache
}

// collaborators внешние зависимости, общие для обоих хранилищ
type collaborators struct {
	cache    slotCache
	notifier lifecycle.Notifier
	metrics  *metrics.Metrics
	policy   domain.Policy
	defaults domain.ScheduleConfig
	log      *logger.Logger
}

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

	log.Info("Starting SMC-BeautyBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	deps := collaborators{
		cache:    slots.Noop{},
		notifier: notifier.Noop{},
		metrics:  metricsCollector,
		policy: domain.Policy{
			Location:       loc,
			CreateLead:     time.Duration(cfg.Booking.CreateLeadMinutes) * time.Minute,
			CancelLead:     time.Duration(cfg.Booking.CancelLeadMinutes) * time.Minute,
			RescheduleLead: time.Duration(cfg.Booking.RescheduleLeadMinutes) * time.Minute,
			HistoryPreview: cfg.Booking.HistoryPreview,
		},
		defaults: domain.ScheduleConfig{
			OpenHour:        cfg.Booking.OpenHour,
			CloseHour:       cfg.Booking.CloseHour,
			SlotStepMinutes: cfg.Booking.SlotStepMinutes,
		},
		log: log,
	}

	// Кэш слотов в Redis
	if cfg.Redis.Enabled {
		redisClient := slots.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		redisCache := slots.NewCache(redisClient, time.Duration(cfg.Redis.SlotsTTL)*time.Second)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		deps.cache = redisCache
		log.Info("Slot cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.SlotsTTL)
	}

	// Уведомления в RabbitMQ
	if cfg.RabbitMQ.Enabled {
		publisher, err := notifier.NewClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer publisher.Close()
		deps.notifier = publisher
		log.Info("Booking notifications enabled (exchange=%s)", cfg.RabbitMQ.Exchange)
	}

	var app *components
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("Using in-memory storage: data is lost on restart and the catalog starts empty")
		app = buildMemory(deps)

	default:
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

		// С nil-коллектором обёртка не пишет метрики и не собирает статистику пула
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		app = buildPostgres(wrappedDB, deps)
	}

	// Инициализируем handlers
	getArtistSlots := getAvailableSlotsHandler.NewHandler(domain.ResourceArtist, app.availability, log)
	getServiceOptionSlots := getAvailableSlotsHandler.NewHandler(domain.ResourceServiceOption, app.availability, log)
	getSchedule := getScheduleHandler.NewHandler(app.schedules, log)

	createBooking := createBookingHandler.NewHandler(app.lifecycle, log)
	getUserBookings := getUserBookingsHandler.NewHandler(app.bookings, log)
	getBookingStats := getBookingStatsHandler.NewHandler(app.bookings, log)
	getBooking := getBookingHandler.NewHandler(app.bookings, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(app.bookings, log)
	cancelBooking := cancelBookingHandler.NewHandler(app.lifecycle, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(app.lifecycle, log)
	rateBooking := rateBookingHandler.NewHandler(app.rating, log)

	updateBookingStatus := updateBookingStatusHandler.NewHandler(app.lifecycle, log)
	recordPayment := recordPaymentHandler.NewHandler(app.lifecycle, log)
	processRefund := processRefundHandler.NewHandler(app.lifecycle, log)
	getResourceBookings := getResourceBookingsHandler.NewHandler(app.bookings, log)
	updateSchedule := updateScheduleHandler.NewHandler(app.schedules, log)
	deleteSchedule := deleteScheduleHandler.NewHandler(app.schedules, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты мастера и опции услуги
	api.HandleFunc("/artists/{resourceId}/available-slots", getArtistSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/service-options/{resourceId}/available-slots", getServiceOptionSlots.Handle).Methods(http.MethodGet)

	// Действующее расписание ресурса
	api.HandleFunc("/schedules/{kind}/{resourceId}", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (JWT или X-User-ID / X-User-Role)
	// ============================================================

	auth := middleware.NewAuth(cfg.Auth.JWTSecret, log)
	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret is empty: trusting X-User-ID / X-User-Role headers")
	}

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)
		protected.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Бронирования пользователя ---
	// Статичные пути регистрируются раньше /bookings/{bookingId}
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/stats", getBookingStats.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/rate", rateBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/history", getBookingHistory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// --- Операторские маршруты ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(auth.RequireOperator)

	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/payment", recordPayment.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/refund", processRefund.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/resources/{kind}/{resourceId}/bookings", getResourceBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/schedules/{kind}", updateSchedule.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/schedules/{kind}", deleteSchedule.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/schedules/{kind}/{resourceId}", updateSchedule.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/schedules/{kind}/{resourceId}", deleteSchedule.Handle).Methods(http.MethodDelete)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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

// buildPostgres собирает компоненты поверх PostgreSQL
func buildPostgres(db *dbmetrics.DB, deps collaborators) *components {
	bookingRepository := bookingRepo.NewRepository(db)
	historyRepository := historyRepo.NewRepository(db)
	ratingRepository := ratingRepo.NewRepository(db)
	catalogRepository := catalogRepo.NewRepository(db)
	scheduleRepository := scheduleRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	return &components{
		lifecycle: lifecycle.NewUseCase(
			bookingRepository,
			historyRepository,
			catalogRepository,
			availability.NewChecker(bookingRepository),
			txMgr,
			deps.cache,
			deps.notifier,
			deps.metrics,
			deps.policy,
			deps.log,
		),
		availability: availability.NewUseCase(
			bookingRepository,
			catalogRepository,
			scheduleRepository,
			deps.cache,
			deps.policy,
			deps.defaults,
			deps.log,
		),
		rating: rateBookingUC.NewUseCase(
			bookingRepository,
			ratingRepository,
			catalogRepository,
			txMgr,
			deps.log,
		),
		bookings: bookingsService.NewService(
			bookingRepository,
			historyRepository,
			ratingRepository,
			deps.policy,
			deps.log,
		),
		schedules: scheduleService.NewService(scheduleRepository, deps.defaults, deps.log),
	}
}

// buildMemory собирает компоненты поверх хранилища в памяти
func buildMemory(deps collaborators) *components {
	store := memory.NewStore()

	return &components{
		lifecycle: lifecycle.NewUseCase(
			store.Bookings(),
			store.History(),
			store.Catalog(),
			availability.NewChecker(store.Bookings()),
			store.TxManager(),
			deps.cache,
			deps.notifier,
			deps.metrics,
			deps.policy,
			deps.log,
		),
		availability: availability.NewUseCase(
			store.Bookings(),
			store.Catalog(),
			store.Schedules(),
			deps.cache,
			deps.policy,
			deps.defaults,
			deps.log,
		),
		rating: rateBookingUC.NewUseCase(
			store.Bookings(),
			store.Ratings(),
			store.Catalog(),
			store.TxManager(),
			deps.log,
		),
		bookings: bookingsService.NewService(
			store.Bookings(),
			store.History(),
			store.Ratings(),
			deps.policy,
			deps.log,
		),
		schedules: scheduleService.NewService(store.Schedules(), deps.defaults, deps.log),
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/admin_delete_reservation"
	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/admin_login"
	createReservationHandler "github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/create_reservation"
	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/delete_my_reservation"
	getAvailabilityHandler "github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/get_availability"
	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/get_my_reservations"
	getSessionsHandler "github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/get_sessions_by_date"
	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/health"
	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/list_sessions"
	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/recognize_plate"
	"github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/user_login"
	verifyPlateHandler "github.com/m04kA/EVCharge-ReservationService/internal/api/handlers/verify_plate"
	"github.com/m04kA/EVCharge-ReservationService/internal/api/middleware"
	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/internal/config"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/events"
	"github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/database"
	reservationRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/reservation"
	sessionRepo "github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/session"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/platerecognizer"
	authService "github.com/m04kA/EVCharge-ReservationService/internal/service/auth"
	reservationsService "github.com/m04kA/EVCharge-ReservationService/internal/service/reservations"
	createReservationUC "github.com/m04kA/EVCharge-ReservationService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/EVCharge-ReservationService/internal/usecase/get_availability"
	getSessionsUC "github.com/m04kA/EVCharge-ReservationService/internal/usecase/get_sessions_by_date"
	verifyPlateUC "github.com/m04kA/EVCharge-ReservationService/internal/usecase/verify_plate"
	"github.com/m04kA/EVCharge-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/EVCharge-ReservationService/pkg/logger"
	"github.com/m04kA/EVCharge-ReservationService/pkg/metrics"
	"github.com/m04kA/EVCharge-ReservationService/pkg/sqlbuilder"
	"github.com/m04kA/EVCharge-ReservationService/pkg/tracing"
	"github.com/m04kA/EVCharge-ReservationService/pkg/txmanager"
)

const serviceName = "evcharge-reservation-service"

// publisher отправитель событий бронирований
type publisher interface {
	Publish(ctx context.Context, event events.ReservationEvent)
	Close() error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting EVCharge-ReservationService...")
	log.Info("Configuration loaded from %s", configPath)

	ctx := context.Background()

	// Трейсинг
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных и накатываем схему
	dialect := cfg.Database.Dialect()
	if dialect == sqlbuilder.SQLite && cfg.Database.DSNOverride == "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			log.Fatal("Failed to create database directory: %v", err)
		}
	}
	db, err := database.Open(ctx, dialect, cfg.Database.DSN(), database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Successfully connected to database (driver=%s)", dialect)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	builder := sqlbuilder.New(dialect)

	// Репозитории и транзакции
	reservationRepository := reservationRepo.NewRepository(wrappedDB, builder)
	sessionRepository := sessionRepo.NewRepository(wrappedDB, builder)
	txMgr := txmanager.NewTransactionManager(wrappedDB, dialect.SupportsSerializable())

	if cfg.Sessions.AutoSeed {
		created, err := sessionRepository.EnsureBase(ctx, cfg.Sessions.SessionNames())
		if err != nil {
			log.Fatal("Failed to seed charging sessions: %v", err)
		}
		log.Info("Charging sessions seeded: created=%d, total=%d", created, cfg.Sessions.SeedCount)
	}

	hours, err := domain.NewBusinessHours(cfg.Business.Open, cfg.Business.Close)
	if err != nil {
		log.Fatal("Invalid business hours: %v", err)
	}
	location := cfg.Business.Location()

	// События бронирований
	var eventPublisher publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		eventPublisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		log.Info("Kafka publisher enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer eventPublisher.Close()

	// Интеграционный клиент распознавания номеров
	plateClient := platerecognizer.NewClient(
		cfg.PlateService.URL,
		time.Duration(cfg.PlateService.Timeout)*time.Second,
		log,
	)
	log.Info("Plate recognizer client initialized (url=%s timeout=%ds)", cfg.PlateService.URL, cfg.PlateService.Timeout)

	// Инициализируем use cases
	getSessionsUseCase := getSessionsUC.NewUseCase(reservationRepository, sessionRepository, location, log)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(availability.NewBuilder(getSessionsUseCase, hours), log)
	verifyPlateUseCase := verifyPlateUC.NewUseCase(reservationRepository, metricsCollector, hours, location, log)
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		sessionRepository,
		txMgr,
		eventPublisher,
		metricsCollector,
		hours,
		location,
		log,
	)

	// Инициализируем сервисы
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		sessionRepository,
		txMgr,
		eventPublisher,
		metricsCollector,
		location,
		log,
	)
	authSvc := authService.NewService(authService.Credentials{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Token:    cfg.Admin.Token,
	}, log)

	// Инициализируем handlers
	listSessions := list_sessions.NewHandler(reservationsSvc, log)
	getSessions := getSessionsHandler.NewHandler(getSessionsUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	verifyPlate := verifyPlateHandler.NewHandler(verifyPlateUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getMyReservations := get_my_reservations.NewHandler(reservationsSvc, log)
	deleteMyReservation := delete_my_reservation.NewHandler(reservationsSvc, log)
	adminLogin := admin_login.NewHandler(authSvc, log)
	adminDelete := admin_delete_reservation.NewHandler(reservationsSvc, log)
	userLogin := user_login.NewHandler(authSvc, log)
	recognizePlate := recognize_plate.NewHandler(plateClient, log)

	// Ограничение частоты для verify и create
	limit, rdb := newRateLimiter(cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/sessions", listSessions.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/by-session", getSessions.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/my", getMyReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", deleteMyReservation.Handle).Methods(http.MethodDelete)

	api.Handle("/plates/verify", limit(http.HandlerFunc(verifyPlate.Handle))).Methods(http.MethodPost)
	api.Handle("/reservations", limit(http.HandlerFunc(createReservation.Handle))).Methods(http.MethodPost)

	api.HandleFunc("/license-plates", recognizePlate.Handle).Methods(http.MethodPost)
	api.HandleFunc("/plates/recognize", recognizePlate.Handle).Methods(http.MethodPost)

	api.HandleFunc("/user/login", userLogin.Handle).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", adminLogin.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (Authorization: Bearer <token>)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(authSvc, log))

	admin.HandleFunc("/reservations/by-session", getSessions.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{reservationId}", adminDelete.Handle).Methods(http.MethodDelete)

	// CORS оборачивает весь роутер, чтобы preflight не упирался в 405
	var handler http.Handler = middleware.CORS(cfg.CORS.Origins)(r)
	handler = otelhttp.NewHandler(handler, serviceName)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// newRateLimiter собирает middleware ограничения частоты по конфигурации.
// Клиент redis возвращается, чтобы его можно было закрыть при остановке
func newRateLimiter(cfg *config.Config, log *logger.Logger) (func(http.Handler) http.Handler, *redis.Client) {
	if !cfg.RateLimit.Enabled {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	if cfg.RateLimit.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter := middleware.NewRedisLimiter(rdb, cfg.RateLimit.Limit, time.Duration(cfg.RateLimit.Window)*time.Second, "evcharge:rl")
		log.Info("Rate limit enabled (redis=%s, limit=%d per %ds, fail_open=%t)",
			cfg.Redis.Addr, cfg.RateLimit.Limit, cfg.RateLimit.Window, cfg.RateLimit.FailOpen)
		return middleware.RateLimit(limiter, cfg.RateLimit.FailOpen, log), rdb
	}

	log.Info("Rate limit enabled (memory, rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	return middleware.RateLimit(middleware.NewMemoryLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst), false, log), nil
}

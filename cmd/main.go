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
	"github.com/redis/go-redis/v9"

	availableBeauticiansHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/available_beauticians"
	availableTimeSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/available_time_slots"
	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_appointment"
	findBestBeauticianHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/find_best_beautician"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getBeauticianAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_beautician_appointments"
	getBeauticianScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_beautician_schedule"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_customer_appointments"
	smartBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/smart_booking"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_appointment_status"
	updateBeauticianScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_beautician_schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache/preview"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/availability"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	userServiceClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/userservice"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
	scheduleService "github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/service/selector"
	availableBeauticiansUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_beauticians"
	availableTimeSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_time_slots"
	createAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	findBestBeauticianUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/find_best_beautician"
	smartBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/smart_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Booking.Timezone, err)
	}
	clock := &smartBookingUC.RealTimeProvider{Location: location}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

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

	// Без метрик обертка просто проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB, txmanager.WithMaxRetries(cfg.Booking.SerializationRetries))

	// Кэш предпросмотра (опционален)
	var previewCache selector.PreviewCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis %s is not reachable, previews will be computed on every request: %v", cfg.Redis.Addr, err)
		}
		pingCancel()

		previewCache = preview.NewCache(redisClient, time.Duration(cfg.Redis.PreviewTTL)*time.Second)
		log.Info("Preview cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.PreviewTTL)
	}

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Инициализируем доменные сервисы
	calculator := availability.NewCalculator(
		availabilityRepository,
		appointmentRepository,
		cfg.Booking.SlotStepMinutes,
		log,
	)
	beauticianMatcher := matcher.NewMatcher(
		catalogRepository,
		catalogRepository,
		userClient,
		calculator,
		cfg.Booking.MaxParallelMatches,
		log,
	)
	bestSlotSelector := selector.NewSelector(beauticianMatcher, previewCache, metricsCollector, log)

	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		txMgr,
		bestSlotSelector,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		availabilityRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	findBestBeauticianUseCase := findBestBeauticianUC.NewUseCase(
		bestSlotSelector,
		cfg.Booking.MaxServicesPerBooking,
		clock,
		log,
	)
	availableBeauticiansUseCase := availableBeauticiansUC.NewUseCase(
		beauticianMatcher,
		cfg.Booking.MaxServicesPerBooking,
		clock,
		log,
	)
	availableTimeSlotsUseCase := availableTimeSlotsUC.NewUseCase(
		calculator,
		clock,
		log,
	)
	smartBookingUseCase := smartBookingUC.NewUseCase(
		beauticianMatcher,
		availabilityRepository,
		appointmentRepository,
		calculator,
		txMgr,
		bestSlotSelector,
		metricsCollector,
		cfg.Booking.MaxServicesPerBooking,
		clock,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		beauticianMatcher,
		availabilityRepository,
		appointmentRepository,
		calculator,
		txMgr,
		bestSlotSelector,
		metricsCollector,
		cfg.Booking.MaxServicesPerBooking,
		clock,
		log,
	)

	// Инициализируем handlers
	findBestBeautician := findBestBeauticianHandler.NewHandler(findBestBeauticianUseCase, log)
	availableBeauticians := availableBeauticiansHandler.NewHandler(availableBeauticiansUseCase, log)
	availableTimeSlots := availableTimeSlotsHandler.NewHandler(availableTimeSlotsUseCase, log)
	getBeauticianSchedule := getBeauticianScheduleHandler.NewHandler(scheduleSvc, log)
	smartBooking := smartBookingHandler.NewHandler(smartBookingUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getBeauticianAppointments := getBeauticianAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateBeauticianSchedule := updateBeauticianScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с ограничением частоты)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.RPS > 0 {
		trustedProxies, err := cfg.RateLimit.Proxies()
		if err != nil {
			log.Fatal("Invalid trusted proxies: %v", err)
		}
		public.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, trustedProxies).Middleware)
		log.Info("Rate limit on public routes: rps=%.1f burst=%d trusted_proxies=%d",
			cfg.RateLimit.RPS, cfg.RateLimit.Burst, len(trustedProxies))
	}

	// Рекомендация лучшего мастера и слота
	public.HandleFunc("/find-best-beautician", findBestBeautician.Handle).Methods(http.MethodGet)

	// Мастера со свободным временем на дату
	public.HandleFunc("/available-beauticians", availableBeauticians.Handle).Methods(http.MethodGet)

	// Свободные слоты мастера
	public.HandleFunc("/beauticians/{beauticianId}/available-time-slots",
		availableTimeSlots.Handle).Methods(http.MethodGet)

	// Недельный шаблон мастера
	public.HandleFunc("/beauticians/{beauticianId}/schedule",
		getBeauticianSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Запись ---
	// Умная запись: мастер и слот подбираются сервером
	protected.HandleFunc("/smart-booking", smartBooking.Handle).Methods(http.MethodPost)

	// Ручная запись к выбранному мастеру
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Персонал салона ---
	// Смена статуса записи
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Записи мастера на день
	protected.HandleFunc("/beauticians/{beauticianId}/appointments",
		getBeauticianAppointments.Handle).Methods(http.MethodGet)

	// Замена рабочих окон мастера на день недели
	protected.HandleFunc("/beauticians/{beauticianId}/schedule/{day}",
		updateBeauticianSchedule.Handle).Methods(http.MethodPut)

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

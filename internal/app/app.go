package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/runningplanet/crew-service/internal/broadcast"
	"github.com/runningplanet/crew-service/internal/config"
	"github.com/runningplanet/crew-service/internal/handler"
	"github.com/runningplanet/crew-service/internal/middleware"
	"github.com/runningplanet/crew-service/internal/repository/postgres"
	"github.com/runningplanet/crew-service/internal/service"
	"github.com/runningplanet/crew-service/internal/storage"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config *config.Config
	db     *pgxpool.Pool
	rdb    *redis.Client
	server *http.Server
	logger *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Подключаемся к Redis
	if err := a.connectRedis(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	if err := a.setupServer(); err != nil {
		return fmt.Errorf("failed to setup server: %w", err)
	}

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// connectRedis устанавливает подключение к Redis
func (a *App) connectRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	a.rdb = rdb
	a.logger.Info("Connected to redis")
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() error {
	// Инициализируем слой репозиториев (работа с БД)
	memberRepo := postgres.NewMemberRepository(a.db)
	crewRepo := postgres.NewCrewRepository(a.db)
	crewMemberRepo := postgres.NewCrewMemberRepository(a.db)
	applicationRepo := postgres.NewCrewApplicationRepository(a.db)
	missionRepo := postgres.NewCrewMissionRepository(a.db)
	recordRepo := postgres.NewRecordRepository(a.db)

	// Менеджер транзакций: репозитории подхватывают транзакцию из контекста
	txManager := manager.Must(trmpgx.NewDefaultFactory(a.db))

	// Хранилище изображений крю
	images, err := storage.NewDiskStore(a.config.Storage.Dir, a.config.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create image store: %w", err)
	}

	// Трансляция статусов бега в каналы крю
	publisher := broadcast.NewRedisBroadcaster(a.rdb)

	// Инициализируем слой сервисов (бизнес-логика)
	crewService := service.NewCrewService(
		crewRepo, crewMemberRepo, applicationRepo, missionRepo, memberRepo,
		images, txManager, a.logger,
	)
	missionService := service.NewMissionService(
		missionRepo, crewRepo, memberRepo, crewMemberRepo, recordRepo,
		txManager, a.logger,
	)
	recordService := service.NewRecordService(
		recordRepo, memberRepo, crewRepo, crewMemberRepo,
		publisher, txManager, a.logger,
	)
	memberService := service.NewMemberService(memberRepo, crewRepo, crewMemberRepo, a.logger)
	authService := service.NewAuthService(
		memberRepo,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	crewHandler := handler.NewCrewHandler(crewService)
	missionHandler := handler.NewMissionHandler(missionService)
	recordHandler := handler.NewRecordHandler(recordService)
	memberHandler := handler.NewMemberHandler(memberService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Публичные эндпоинты (без авторизации)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Раздача загруженных изображений крю
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.config.Storage.Dir))))

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware)

		// Профиль участника
		r.Get("/members/me", memberHandler.GetProfile)

		// Эндпоинты крю
		r.Route("/crews", func(r chi.Router) {
			r.Post("/", crewHandler.CreateCrew)
			r.Get("/", crewHandler.FindAllCrew)

			r.Route("/{crewId}", func(r chi.Router) {
				r.Get("/", crewHandler.FindCrew)
				r.Put("/", crewHandler.UpdateCrew)

				// Заявки на вступление
				r.Post("/applications", crewHandler.ApplyCrew)
				r.Delete("/applications", crewHandler.CancelApplication)
				r.Get("/applications", crewHandler.GetApplications)
				r.Post("/applications/{memberId}", crewHandler.ProceedApplication)

				// Членство
				r.Delete("/members/me", crewHandler.LeaveCrew)
				r.Delete("/members/{memberId}", crewHandler.RemoveMember)

				// Миссии
				r.Get("/missions", missionHandler.GetCrewMission)
				r.Post("/missions/{missionId}/success", missionHandler.SuccessMission)

				// Статус бега участников крю
				r.Get("/running-status", recordHandler.FindAllRunningStatus)
			})
		})

		// Эндпоинты записей о пробежках
		r.Route("/records", func(r chi.Router) {
			r.Post("/", recordHandler.Save)
			r.Get("/", recordHandler.FindAll)
			r.Get("/current", recordHandler.FindCurrent)
			r.Get("/{recordId}", recordHandler.Find)
		})
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
	return nil
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Закрываем подключения к базе данных и Redis
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("Failed to close redis client", "error", err)
		}
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}

// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы,
// обработчики HTTP, консоль модерации и планировщик.
package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"fictionhub/internal/auth"
	"fictionhub/internal/bot"
	"fictionhub/internal/config"
	"fictionhub/internal/db/postgres"
	"fictionhub/internal/email"
	"fictionhub/internal/features/comments"
	"fictionhub/internal/features/confirmation"
	"fictionhub/internal/features/likes"
	"fictionhub/internal/features/parts"
	"fictionhub/internal/features/reports"
	"fictionhub/internal/features/search"
	"fictionhub/internal/features/stories"
	"fictionhub/internal/features/uploads"
	"fictionhub/internal/features/users"
	"fictionhub/internal/jobs"
	"fictionhub/internal/moderation"
)

// Время жизни кода подтверждения почты.
const confirmationTTL = 5 * time.Minute

// App содержит все компоненты приложения.
type App struct {
	Server    *http.Server
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Почта и токены ===
	mailer := email.NewSender(cfg)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// === 4. Репозитории ===
	userRepo := users.NewRepository(pool)
	storyRepo := stories.NewRepository(pool)
	partRepo := parts.NewRepository(pool)
	commentRepo := comments.NewRepository(pool)
	likeRepo := likes.NewRepository(pool)
	reportRepo := reports.NewRepository(pool)

	// === 5. Консоль модерации ===
	// Создаётся до сервисов: сервис жалоб шлёт в неё уведомления.
	store := moderation.NewStore(reportRepo, storyRepo, userRepo)
	console := moderation.NewConsole(botAPI, store, mailer, cfg.AdminSecret, cfg.AdminChatIDs)

	// === 6. Сервисы ===
	userService := users.NewService(userRepo, tokens)
	storyService := stories.NewService(storyRepo)
	partService := parts.NewService(partRepo)
	commentService := comments.NewService(commentRepo)
	reportService := reports.NewService(reportRepo, console)
	searchService := search.NewService(pool, storyRepo)

	codeStore := confirmation.NewStore(confirmationTTL)
	confirmationService := confirmation.NewService(codeStore, mailer)

	uploadService, err := uploads.NewService(filepath.Join(cfg.UploadDir, uploads.ProfileImagesDir), cfg.UploadMaxBytes)
	if err != nil {
		return nil, err
	}

	// === 7. Обработчики ===
	handlers := Handlers{
		Users:        users.NewHandler(userService),
		Stories:      stories.NewHandler(storyService),
		Parts:        parts.NewHandler(partService, storyRepo),
		Comments:     comments.NewHandler(commentService),
		Likes:        likes.NewHandler(likeRepo),
		Reports:      reports.NewHandler(reportService),
		Search:       search.NewHandler(searchService),
		Uploads:      uploads.NewHandler(uploadService, userService, cfg.BaseURL),
		Confirmation: confirmation.NewHandler(confirmationService),
	}

	// === 8. HTTP-сервер ===
	router := NewRouter(handlers, tokens, cfg.CORSAllowedOrigins, cfg.UploadDir)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// === 9. Бот и планировщик ===
	b := bot.New(botAPI, console, cfg.BotUpdateTimeoutSeconds)
	scheduler := jobs.NewScheduler(codeStore, reportRepo, console)

	return &App{
		Server:    server,
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции по порядку.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Stories},
		{3, migration003Tags},
		{4, migration004Social},
		{5, migration005Reports},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

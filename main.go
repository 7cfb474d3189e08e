package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"flavor_ai/config"
	"flavor_ai/db"
	"flavor_ai/handlers"
	"flavor_ai/logger"
	"flavor_ai/repository"
	"flavor_ai/services"
)

func main() {
	cfg := config.Load()

	// 初始化日志系统
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer logger.Close()
	logger.Info("日志系统初始化成功", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	store, err := openProfileStore(cfg)
	if err != nil {
		logger.Error("初始化画像存储失败", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}

	chat := services.NewResilientChat(cfg, services.NewOpenAIChatClient(cfg))
	app := services.NewFlavorApp(cfg, services.Deps{
		Store:     store,
		Places:    services.NewGooglePlacesClient(cfg),
		Annotator: services.NewLLMFlavorAnnotator(chat),
		Inferer:   services.NewLLMTasteInferer(chat),
		Notifier:  services.NewHTTPFeedbackPusher(cfg),
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	handlers.RegisterRoutes(r, cfg, app)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("服务器启动", "address", serverAddr)
	logger.Info("Swagger文档可访问", "url", fmt.Sprintf("http://%s/swagger/index.html", serverAddr))
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, r))
}

// openProfileStore 按配置选择画像存储
func openProfileStore(cfg *config.Config) (repository.ProfileStore, error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case "mysql":
		conn, err := db.OpenMySQL(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("MySQL连接成功",
			"max_open_conns", cfg.DB.MaxOpenConns,
			"max_idle_conns", cfg.DB.MaxIdleConns,
			"conn_max_lifetime", cfg.DB.ConnMaxLifetime)

		store := repository.NewMySQLProfileStore(conn)
		if err := store.EnsureSchema(context.Background()); err != nil {
			conn.Close()
			return nil, err
		}
		return store, nil
	case "csv":
		logger.Info("使用CSV画像存储", "path", cfg.Store.CSVPath)
		return repository.NewCSVProfileStore(cfg.Store.CSVPath), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

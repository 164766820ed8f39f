package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	glog "github.com/labstack/gommon/log"

	"github.com/srinbasjoys/TEAP/internal/config"
	"github.com/srinbasjoys/TEAP/internal/database"
	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/handler"
	"github.com/srinbasjoys/TEAP/internal/queue"
	"github.com/srinbasjoys/TEAP/internal/repository"
	"github.com/srinbasjoys/TEAP/internal/router"
	"github.com/srinbasjoys/TEAP/internal/service"
	"github.com/srinbasjoys/TEAP/internal/sitemap"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()
	cfg := config.Load()

	db, dialect, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := docstore.New(db, dialect)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = store.EnsureSchema(ctx)
	cancel()
	if err != nil {
		log.Fatalf("schema: %v", err)
	}

	pages, err := sitemap.LoadPages(cfg.SitemapPagesFile)
	if err != nil {
		log.Fatalf("sitemap pages: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	admins := repository.NewAdminRepo(store)
	seo := repository.NewSEORepo(store)
	robots := repository.NewRobotsRepo(store)
	blogs := repository.NewBlogRepo(store)
	keywords := repository.NewKeywordRepo(store)
	contacts := repository.NewContactRepo(store)
	logos := repository.NewLogoRepo(store)

	contact := handler.NewContactHandler(contacts, nil)
	h := router.Handlers{
		Health:    handler.NewHealthHandler(store),
		Auth:      handler.NewAuthHandler(cfg, admins),
		SEO:       handler.NewSEOHandler(seo),
		Robots:    handler.NewRobotsHandler(robots, cfg.SiteBaseURL),
		Blogs:     handler.NewBlogHandler(blogs),
		Keywords:  handler.NewKeywordHandler(keywords),
		Contact:   contact,
		Logo:      handler.NewLogoHandler(logos, cfg.LogoDir, cfg.MaxUploadBytes),
		Sitemap:   handler.NewSitemapHandler(blogs, cfg.SiteBaseURL, pages),
		Analytics: handler.NewAnalyticsHandler(seo, blogs, keywords),
	}

	e := router.New(router.Options{
		Config:    cfg,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
		Admins:    admins,
	}, h)
	if cfg.Env == "dev" {
		e.Logger.SetLevel(glog.DEBUG)
	} else {
		e.Logger.SetLevel(glog.INFO)
	}

	notifier := &service.Notifier{
		MailTo:  cfg.ContactEmail,
		Chat:    service.NewWebhookChat(cfg.SlackWebhookURL),
		Logger:  e.Logger,
		Timeout: 15 * time.Second,
	}
	if cfg.SMTPHost != "" {
		notifier.Mailer = service.NewSMTPMailer(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		})
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RabbitMQURL != "" {
		pub := service.NewAMQPPublisher(cfg.RabbitMQURL)
		defer pub.Close()
		notifier.Publisher = pub

		consumer := &queue.ContactConsumer{
			URL:    cfg.RabbitMQURL,
			LogDir: "logs",
			Logger: e.Logger,
		}
		go func() {
			if err := consumer.Run(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
				e.Logger.Errorf("contact consumer stopped: %v", err)
			}
		}()
	}
	contact.Notifier = notifier

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, dialect.Name)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-sigCtx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

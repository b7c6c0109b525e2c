package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/meditalk/meditalk/internal/api"
	"github.com/meditalk/meditalk/internal/cache"
	"github.com/meditalk/meditalk/internal/config"
	"github.com/meditalk/meditalk/internal/content"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/gravatar"
	"github.com/meditalk/meditalk/internal/notify/email"
	"github.com/meditalk/meditalk/internal/scheduler"
	"github.com/meditalk/meditalk/internal/session"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MediTalk server",
	Long:  `Start the MediTalk web server together with the background jobs that expire idle sessions.`,
	Example: `meditalk serve --config config.yml
meditalk serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	exists, err := dbFileExists(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to check database file: %v", err)
	}

	db := openDatabase(cfg)
	defer db.Close() //nolint: errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !exists {
		seedNewDatabase(ctx, cfg, db)
	}

	var contentCache *cache.ContentCache
	if cfg.Content.Cache {
		contentCache = cache.NewContentCache(cfg.Cache)
	}
	loader := content.NewLoader(os.DirFS(cfg.Content.Dir), contentCache)

	directory := session.NewDirectory(cfg.Session.IdleTimeout, nil)
	sched, err := scheduler.New(nil)
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}
	if err := sched.AddSessionSweep(cfg.Session.SweepInterval, directory.SweepJob); err != nil {
		log.Fatalf("failed to schedule session sweep: %v", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler", "error", err)
		}
	}()

	if log.GetLevel() != log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	server, err := api.New(cfg, api.Options{
		DB:        db,
		Directory: directory,
		Loader:    loader,
		Includer:  content.NewIncluder(loader, cfg.Content.MaxIncludeDepth, cfg.Content.Cache),
		Scheduler: sched,
		Mailer:    email.New(cfg.Email),
		Avatars:   gravatar.New(cfg.Gravatar),
	})
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	log.Info("MediTalk started successfully", "content", cfg.Content.Dir, "cache", contentCache != nil)
	if err := server.Run(ctx); err != nil {
		log.Error("API server error", "error", err)
		return
	}
	log.Info("shut down gracefully")
}

// seedNewDatabase fills a freshly created database when an admin password is configured.
func seedNewDatabase(ctx context.Context, cfg *config.Config, db database.DB) {
	if cfg.Setup == nil || cfg.Setup.AdminPassword == "" {
		log.Warn("New database created without seed data, set setup.admin_password and run the seed command")
		return
	}
	data := database.DefaultSeedData(cfg.Setup.AdminUsername, cfg.Setup.AdminPassword, cfg.Setup.AdminEmail)
	if err := db.Seed(ctx, data); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}
	log.Info("Seeded new database", "admin", cfg.Setup.AdminUsername)
}

func dbFileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

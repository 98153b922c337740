package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"permitwork/internal/config"
	"permitwork/internal/database"
	"permitwork/internal/domain/permit"
	"permitwork/internal/domain/upload"
	"permitwork/internal/middleware"
	"permitwork/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	if cfg.AutoMigrate {
		log.Println("Running AutoMigrate...")
		if err := migrate(db, cfg); err != nil {
			log.Fatal("AutoMigrate failed: ", err)
		}
	}

	ctx := context.Background()
	bucket, err := storage.Open(ctx, storageConfig(cfg))
	if err != nil {
		log.Fatal("storage: ", err)
	}

	uploadService := upload.NewService(bucket, upload.NewRepository(db, cfg.PhotosTable), upload.Options{
		Public:       cfg.BucketPublic,
		SignedURLTTL: cfg.SignedURLTTL,
		MaxMB:        cfg.MaxUploadMB,
	})
	permitService := permit.NewService(permit.NewRepository(db, cfg.PermitTable), uploadService, permit.Options{
		RequireSafetyConfirmation: cfg.RequireSafetyConfirmation,
		MaxUploadMB:               cfg.MaxUploadMB,
		CSCOptions:                cfg.CSCOptions,
	})
	permitHandler := permit.NewHandler(permitService)

	r := gin.New()
	r.Use(gin.Logger(), middleware.RequestID(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSAllowedOrigins))
	r.SetHTMLTemplate(permit.Templates())

	permitHandler.RegisterRoutes(r)
	permitHandler.RegisterAPIRoutes(r.Group("/api/v1"))

	r.GET("/healthz", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(pingCtx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": cfg.StorageDriver, "bucket": bucket.Name()})
	})

	if disk, ok := bucket.(*storage.DiskBucket); ok {
		prefix := servePath(disk.URLBase())
		r.GET(prefix+"/*key", disk.Handler(!cfg.BucketPublic))
		log.Printf("serving stored files under %s (token required: %t)", prefix, !cfg.BucketPublic)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Printf("permit service listening on %s (env=%s)", srv.Addr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func migrate(db *gorm.DB, cfg *config.Config) error {
	if err := permit.Migrate(db, cfg.PermitTable); err != nil {
		return err
	}
	return upload.Migrate(db, cfg.PhotosTable)
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Driver: cfg.StorageDriver,
		Bucket: cfg.Bucket,
		S3: storage.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		},
		B2: storage.B2Config{
			KeyID:  cfg.B2KeyID,
			AppKey: cfg.B2AppKey,
		},
		Disk: storage.DiskConfig{
			Dir:           cfg.DiskDir,
			URLBase:       cfg.DiskURLBase,
			SigningSecret: cfg.URLSigningSecret,
		},
	}
}

// servePath turns DISK_URL_BASE, a path or an absolute URL, into the route
// prefix this server answers on.
func servePath(base string) string {
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		base = u.Path
	}
	if base == "" || base == "/" {
		return "/files"
	}
	return base
}

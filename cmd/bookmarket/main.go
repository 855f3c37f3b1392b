package main

import (
	"context"
	"flag"
	"os"
	"sync"
	"time"

	"github.com/emzola/bookmarket/clients"
	"github.com/emzola/bookmarket/config"
	"github.com/emzola/bookmarket/handler"
	"github.com/emzola/bookmarket/internal/activity"
	"github.com/emzola/bookmarket/internal/jsonlog"
	"github.com/emzola/bookmarket/internal/mailer"
	"github.com/emzola/bookmarket/repository"
	"github.com/emzola/bookmarket/repository/postgres"
	"github.com/emzola/bookmarket/service"
	"github.com/jellydator/ttlcache/v3"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	logger  *jsonlog.Logger
	handler *handler.Handler
}

// @title  Bookmarket API
// @version 1.0.0
// @description This is an API service for listing, requesting and trading used books.
// @contact.name API Support
// @contact.email emma.idika@yahoo.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	// Initialize configuration
	cfg, err := config.Decode(*configPath)
	if err != nil {
		jsonlog.New(os.Stdout, jsonlog.LevelInfo).PrintFatal(err, nil)
	}
	level, err := jsonlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		jsonlog.New(os.Stdout, jsonlog.LevelInfo).PrintFatal(err, nil)
	}
	logger := jsonlog.New(os.Stdout, level)

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Activity feed is optional; without a Mongo URI events are dropped.
	var recorder activity.Recorder = activity.Nop{}
	if cfg.Mongo.URI != "" {
		mongoClient, err := clients.NewMongoClient(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		defer mongoClient.Disconnect(context.Background())
		store := activity.NewMongoStore(mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = store.EnsureIndexes(ctx)
		cancel()
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		recorder = store
		logger.PrintInfo("activity store connected", map[string]string{"database": cfg.Mongo.Database})
	}

	// Object storage for book images
	s3Client, err := clients.NewS3Client(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	store := clients.NewS3Store(s3Client, cfg.S3.Bucket, cfg.S3.Region)

	// Other shared resources: waitgroup and in-memory cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, int64](30 * time.Minute))
	go cache.Start()
	defer cache.Stop()

	// Application layers
	repo := repository.New(db)
	m := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
	svc, err := service.New(cfg, &wg, logger, repo, store, m, recorder, clients.NewHTTPClient())
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	app := &app{
		config:  cfg,
		logger:  logger,
		handler: handler.New(cfg, logger, cache, svc),
	}

	// Start HTTP server
	err = app.serve(&wg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

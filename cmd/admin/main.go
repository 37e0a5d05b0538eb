package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/admin"
	"github.com/dmitrijs2005/wanderlust/internal/server"
	"github.com/dmitrijs2005/wanderlust/internal/server/config"
	"github.com/dmitrijs2005/wanderlust/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wanderlust/internal/server/services"
	"github.com/redis/go-redis/v9"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := sql.Open(repomanager.DriverName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	tracker := server.NewTracker(cfg, func(addr string) *redis.Client {
		return redis.NewClient(&redis.Options{Addr: addr})
	})

	users, err := services.NewUserService(db, rm, cfg, tracker)
	if err != nil {
		log.Fatalf("%v", err)
	}

	attempts := admin.AttemptsFor(cfg, &http.Client{Timeout: 30 * time.Second}, func(string) admin.AttemptClearer {
		return tracker
	})

	migrate := func(ctx context.Context) error { return rm.RunMigrations(ctx, db) }
	app := admin.NewApp(admin.Services{
		Migrate:  migrate,
		Users:    users,
		Attempts: attempts,
		Listings: services.NewListingService(db, rm),
		Images:   services.NewImageService(cfg),
	}, os.Stdin, os.Stdout)

	if err := app.Run(ctx, admin.Positional(os.Args[1:])); err != nil {
		log.Fatalf("%v", err)
	}

}

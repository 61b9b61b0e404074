package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/phillip/hoa-backoffice-go/config"
	"github.com/phillip/hoa-backoffice-go/feed"
	"github.com/phillip/hoa-backoffice-go/ledger"
	"github.com/phillip/hoa-backoffice-go/routes"
	"github.com/phillip/hoa-backoffice-go/store"
	"github.com/phillip/hoa-backoffice-go/utils"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("startup config")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cfg.MongoClient.Disconnect(ctx)
	}()

	mongoStore := store.NewMongoStore(cfg.MongoClient, cfg.DBName, logger)
	blobs := utils.NewCloudinaryStorage()

	contributions := ledger.NewContributionLedger(mongoStore, blobs)
	expenses := ledger.NewExpenseLedger(mongoStore, blobs)
	balance := ledger.NewBalanceAggregator(contributions, expenses)
	feedSvc := feed.NewService(mongoStore, blobs, logger)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "If-None-Match"},
	}))

	routes.SetupRoutes(r, cfg, routes.Deps{
		Store:         mongoStore,
		Contributions: contributions,
		Expenses:      expenses,
		Balance:       balance,
		Feed:          feedSvc,
	})

	logger.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

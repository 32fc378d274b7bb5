// Command authstub serves an in-memory tag-system auth API for running
// tagterm locally.
package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fragmede/tagterm/internal/config"
	"github.com/fragmede/tagterm/internal/logging"
	"github.com/fragmede/tagterm/internal/stub"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env from working directory.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := logging.New("stderr", cfg.LogLevel)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)
	srv := stub.New(cfg.StubSecret, cfg.StubTokenTTL, logger)

	logger.Info("auth stub listening", zap.String("addr", cfg.StubAddr))
	if err := srv.Router().Run(cfg.StubAddr); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}

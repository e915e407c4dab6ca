package main

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/boardgen/internal/api"
	imagepkg "github.com/youruser/boardgen/internal/image"
	"github.com/youruser/boardgen/internal/logger"
)

func main() {
	log, closer := logger.New(os.Getenv("BOARDGEN_LOG_FILE"), logger.ParseLevel(os.Getenv("BOARDGEN_LOG_LEVEL")), 10)
	defer closer.Close()

	loader, err := imagepkg.NewLoader(imagepkg.LoaderOptions{
		CacheDir: os.Getenv("BOARDGEN_CACHE_DIR"),
		Logger:   log,
	})
	if err != nil {
		logger.Fail(log, "image loader setup failed", "error", err)
		os.Exit(1)
	}
	workers, _ := strconv.Atoi(os.Getenv("BOARDGEN_WORKERS"))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(log))
	api.RegisterRoutes(r, api.NewHandlers(loader, log, workers))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("starting server", "addr", "http://localhost:"+port)
	if err := r.Run(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fail(log, "server stopped", "error", err)
		os.Exit(1)
	}
}

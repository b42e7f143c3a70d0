package main

import (
	"log"
	"log/slog"

	"github.com/vbonduro/fridgekeep/internal/catalog"
	"github.com/vbonduro/fridgekeep/internal/config"
	"github.com/vbonduro/fridgekeep/internal/db"
	"github.com/vbonduro/fridgekeep/internal/logging"
	"github.com/vbonduro/fridgekeep/internal/photostore/local"
	"github.com/vbonduro/fridgekeep/internal/recipes"
	"github.com/vbonduro/fridgekeep/internal/recipes/anthropic"
	"github.com/vbonduro/fridgekeep/internal/service"
	"github.com/vbonduro/fridgekeep/internal/store"
	"github.com/vbonduro/fridgekeep/internal/vision"
	claudevision "github.com/vbonduro/fridgekeep/internal/vision/claude"
	"github.com/vbonduro/fridgekeep/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	typeStore := store.NewFoodTypeStore(database)
	itemStore := store.NewFoodItemStore(database)

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	inventory := service.NewInventoryService(
		catalog.New(typeStore, catalog.LoadDefaults()),
		typeStore,
		itemStore,
		newClassifier(cfg, logger),
		photoStg,
		logger,
	)
	recipeSvc := service.NewRecipeService(itemStore, newGenerator(cfg, logger), logger)

	server := web.NewServer(inventory, recipeSvc, photoStg, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newClassifier returns nil when no API key is configured. Photo inserts then
// degrade to the unknown label instead of failing.
func newClassifier(cfg *config.Config, logger *slog.Logger) vision.Classifier {
	if cfg.AnthropicAPIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY not set, photo classification disabled")
		return nil
	}
	logger.Info("using Claude vision classifier", "model", cfg.VisionModel)
	return claudevision.NewClassifier(cfg.AnthropicAPIKey, cfg.VisionModel)
}

// newGenerator returns nil when no API key is configured. Recipe suggestions
// then come back empty.
func newGenerator(cfg *config.Config, logger *slog.Logger) recipes.Generator {
	if cfg.AnthropicAPIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY not set, recipe generation disabled")
		return nil
	}
	logger.Info("using Claude recipe generator", "model", cfg.RecipeModel)
	return anthropic.NewGenerator(cfg.AnthropicAPIKey, cfg.RecipeModel)
}

package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"phishdetect/internal/config"
	"phishdetect/internal/models"
	"phishdetect/internal/services"
	"phishdetect/pkg/classifier"
)

// App holds the process-wide, read-only state shared by all commands and
// request handlers. It is built once at startup and never mutated.
type App struct {
	Config           *config.Config
	DetectionService *services.DetectionService
}

// NewApp loads both artifacts and wires the detection service. Any failure
// is fatal for the caller: there is no lazy loading or fallback.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		transformer classifier.Transformer
		model       classifier.Model
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := classifier.LoadTransformer(cfg.Model.VectorizerPath)
		if err != nil {
			return fmt.Errorf("%w: vectorizer %s: %v", models.ErrArtifact, cfg.Model.VectorizerPath, err)
		}
		transformer = t
		return nil
	})
	g.Go(func() error {
		m, err := classifier.LoadModel(cfg.Model.ClassifierPath)
		if err != nil {
			return fmt.Errorf("%w: classifier %s: %v", models.ErrArtifact, cfg.Model.ClassifierPath, err)
		}
		model = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a, err := New(cfg, transformer, model)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"vectorizer":   cfg.Model.VectorizerPath,
		"classifier":   cfg.Model.ClassifierPath,
		"features":     transformer.NumFeatures(),
		"model_kind":   model.Kind(),
		"model_labels": model.Classes(),
	}).Info("Application initialization complete.")
	return a, nil
}

// New wires an App around artifacts that are already loaded.
func New(cfg *config.Config, transformer classifier.Transformer, model classifier.Model) (*App, error) {
	detection, err := services.NewDetectionService(services.DetectionServiceDeps{
		Transformer:    transformer,
		Model:          model,
		PhishingLabels: cfg.Model.PhishingLabels,
		MaxURLLength:   cfg.Detection.MaxURLLength,
	})
	if err != nil {
		return nil, fmt.Errorf("init detection service: %w", err)
	}
	return &App{
		Config:           cfg,
		DetectionService: detection,
	}, nil
}

// ModelInfo describes the loaded artifacts, including their source paths.
func (a *App) ModelInfo() models.ModelInfo {
	info := a.DetectionService.ModelInfo()
	info.TransformerPath = a.Config.Model.VectorizerPath
	info.ClassifierPath = a.Config.Model.ClassifierPath
	return info
}

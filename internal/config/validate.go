package config

import (
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
)

func (c *Config) Validate() error {
	// Server config
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("server.port %q is not a valid port", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return errors.New("server.read_header_timeout must not be negative")
	}

	// Model config
	if c.Model.VectorizerPath == "" {
		return errors.New("model.vectorizer_path is required")
	}
	if c.Model.ClassifierPath == "" {
		return errors.New("model.classifier_path is required")
	}
	if len(c.Model.PhishingLabels) == 0 {
		return errors.New("model.phishing_labels must name at least one label")
	}

	// Detection config
	if c.Detection.MaxURLLength <= 0 {
		return errors.New("detection.max_url_length must be a positive integer")
	}

	// Log config
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got %q", c.Log.Format)
	}

	return nil
}

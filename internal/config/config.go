package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// AppName is used for the config directory and the environment prefix.
const AppName = "phishdetect"

type Config struct {
	Server struct {
		Addr              string        `mapstructure:"addr"`
		Port              string        `mapstructure:"port"`
		Debug             bool          `mapstructure:"debug"`
		ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	} `mapstructure:"server"`

	Model struct {
		VectorizerPath string   `mapstructure:"vectorizer_path"`
		ClassifierPath string   `mapstructure:"classifier_path"`
		PhishingLabels []string `mapstructure:"phishing_labels"`
	} `mapstructure:"model"`

	Detection struct {
		MaxURLLength int `mapstructure:"max_url_length"`
	} `mapstructure:"detection"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`
}

// ListenAddr joins the configured address and port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Addr, c.Server.Port)
}

// ConfigDir returns the per-user config directory searched after the working directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.read_header_timeout", 5*time.Second)

	// Relative paths are resolved against the working directory.
	v.SetDefault("model.vectorizer_path", "vectorizer.json")
	v.SetDefault("model.classifier_path", "phishing.json")
	v.SetDefault("model.phishing_labels", []string{"bad", "phishing", "1"})

	v.SetDefault("detection.max_url_length", 2048)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads configFile when given, otherwise config.yaml from the
// working directory or ConfigDir(). A missing config file is not an error.
// PHISHDETECT_* environment variables override file values, e.g.
// PHISHDETECT_SERVER_PORT=9090.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

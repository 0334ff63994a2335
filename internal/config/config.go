// Package config reads service settings from a .env file and the environment.
package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"heartrisk/internal/api"
	"heartrisk/internal/storage"
	"heartrisk/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service, one section per concern.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server api.Config `mapstructure:"server"`
	// Model points at the classifier artifact.
	Model ModelConfig `mapstructure:"model"`
	// Storage holds configuration for S3-compatible object storage.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log utils.LogConfig `mapstructure:"log"`
}

// ModelConfig locates the artifact the API serves.
type ModelConfig struct {
	// Path is a local file path or an s3://bucket/key reference.
	Path string `mapstructure:"path" default:"models/heart_model.gob"`
}

// LoadConfig loads dir/.env when present, then lets environment variables
// override the struct-tag defaults. Nested keys map to SECTION_KEY variables.
func LoadConfig(dir string) (*Config, error) {
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindValues registers every mapstructure key with its default tag so that
// AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

// Package bootstrap loads configuration and the logger for CLI commands and
// builds the shared container.
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/orris-inc/rollcall/internal/infrastructure/config"
	httpApp "github.com/orris-inc/rollcall/internal/interfaces/http"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// Env is bound to the root --env flag.
var Env = "development"

// Load reads configuration for Env (overridden by $ENV) and initializes the logger.
func Load() (*config.Config, logger.Interface, error) {
	env := Env
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = MapEnvToGinMode(cfg.Server.Mode)
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// Container loads configuration and wires a container. Callers must Shutdown it.
func Container(ctx context.Context) (*httpApp.Container, *config.Config, logger.Interface, error) {
	cfg, log, err := Load()
	if err != nil {
		return nil, nil, nil, err
	}

	c, err := httpApp.NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize agent: %w", err)
	}
	return c, cfg, log, nil
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// MapEnvToGinMode maps an environment name to a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "development", "dev", "debug":
		return "debug"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

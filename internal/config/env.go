package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/moodmem/pkg/env"
	"github.com/sandevgo/moodmem/pkg/log"
)

// LoadEnv loads <runtimePath>/.env into the process environment. A missing
// file is not an error; variables already set are not overridden.
func LoadEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

var ErrEnvExists = errors.New("env file already exists")

// WriteDefaults writes the default app and scoring configuration to
// <runtimePath>/.env. An existing file is left untouched.
func WriteDefaults(runtimePath string) (string, error) {
	envFile := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envFile); err == nil {
		return envFile, ErrEnvExists
	}

	if err := os.MkdirAll(runtimePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	app := DefaultAppConfig()
	app.RuntimePath = runtimePath

	var content string
	for _, c := range []any{app, DefaultScoringConfig()} {
		s, err := env.MarshalEnv(c)
		if err != nil {
			return "", fmt.Errorf("failed to marshal config: %w", err)
		}
		content += s
	}

	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write env file: %w", err)
	}
	return envFile, nil
}

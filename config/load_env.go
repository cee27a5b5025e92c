package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

const ENV_DIR = "config/envs/.env."

func LoadEnv(env string) {
	envFile := ENV_DIR + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}

package main

import (
	"log/slog"

	"github.com/krancour/drone-logs/sdk/api"
)

func getClient(cfg config) api.Client {
	if cfg.AllowInsecure {
		slog.Warn(
			"TLS certificate verification disabled for the Drone server",
			"server",
			cfg.APIAddress,
		)
	}
	return api.NewClient(cfg.APIAddress, cfg.APIToken, cfg.AllowInsecure)
}

package main

import (
	"log/slog"
	"os"

	"github.com/tphakala/audiofp-go/cmd"
	"github.com/tphakala/audiofp-go/internal/conf"
	"github.com/tphakala/audiofp-go/internal/logging"
)

// Populated at build time via -ldflags.
var version = "dev"
var buildDate = "unknown"

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		logging.Fatal("error loading configuration", "error", err)
	}
	settings.Version = version
	settings.BuildDate = buildDate

	// Route logs to a rotating file when configured.
	if settings.Main.Log.Enabled {
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.Main.Log.Path, "audiofp", slog.LevelInfo)
		if err != nil {
			logging.Warn("file logging disabled", "path", settings.Main.Log.Path, "error", err)
		} else {
			logging.UseLogger(fileLogger)
			defer closeLogger() //nolint:errcheck // log writer close on exit
		}
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sunlit/persona/internal/autosave"
	"github.com/sunlit/persona/internal/gate"
	"github.com/sunlit/persona/internal/share"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Autosave AutosaveConfig
	Gate     GateConfig
	Share    ShareConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type AutosaveConfig struct {
	// Delay is the quiescence window before a pending save fires,
	// as a Go duration string.
	Delay string
}

type GateConfig struct {
	Code string
}

type ShareConfig struct {
	AuthorEmail string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Autosave: AutosaveConfig{
			Delay: autosave.DefaultDelay.String(),
		},
		Gate: GateConfig{
			Code: gate.DefaultCode,
		},
		Share: ShareConfig{
			AuthorEmail: share.DefaultRecipient,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration in layers: built-in defaults, the TOML config file
// at $XDG_CONFIG_HOME/persona/config.toml, then PERSONA_* environment
// variables. A .env file in the working directory is loaded first, if
// present, so env overrides can live next to the project.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "persona-data"
		}
	}
	return filepath.Join(dir, "persona")
}

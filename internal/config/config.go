// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"storefront/internal/logger"
)

// Advanced menu defaults, matching the storefront's plugin configuration.
const (
	DefaultMenuLevels       = 3
	DefaultMenuColumnAmount = 2
	DefaultMenuHoverDelay   = 250
)

// Config is the full runtime configuration of the service.
type Config struct {
	Environment   string
	ServerHost    string
	ServerPort    string
	DatabasePath  string
	CatalogSeed   string
	AllowedOrigin string
	DefaultShopID int
	Logger        logger.Config
	Menu          MenuConfig
}

// MenuConfig holds the advancedMenu namespace.
type MenuConfig struct {
	Levels       int `json:"levels"`
	ColumnAmount int `json:"columnAmount"`
	HoverDelay   int `json:"hoverDelay"`
}

//
// --- Utility Helpers ---
//

// Environment returns "dev" unless ENVIRONMENT says otherwise.
func Environment() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "" {
		env = "dev"
	}
	return env
}

// GetEnvBasedSetting looks up BASE_DEV / BASE_PROD depending on ENVIRONMENT,
// then falls back to the bare BASE variable.
func GetEnvBasedSetting(base string) string {
	if v := os.Getenv(fmt.Sprintf("%s_%s", base, strings.ToUpper(Environment()))); v != "" {
		return v
	}
	return os.Getenv(base)
}

func settingOr(base, fallback string) string {
	if v := GetEnvBasedSetting(base); v != "" {
		return v
	}
	return fallback
}

func intSettingOr(base string, fallback int) int {
	raw := GetEnvBasedSetting(base)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		logger.LogWarn("Invalid %s: %q, using default %d", base, raw, fallback)
		return fallback
	}
	return n
}

// LogCurrentEnvironment reports which environment is running.
func LogCurrentEnvironment() {
	if Environment() == "dev" {
		logger.LogInfo("Running in development environment")
	} else {
		logger.LogInfo("Running in %s environment", Environment())
	}
}

//
// --- Loaders ---
//

// LoadEnv reads the .env file in the working directory if there is one.
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	} else {
		log.Printf("Loaded environment variables from .env file in %s", wd)
	}
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		Environment:   Environment(),
		ServerHost:    settingOr("SERVER_HOST", "127.0.0.1"),
		ServerPort:    settingOr("SERVER_PORT", "5051"),
		DatabasePath:  settingOr("DATABASE_PATH", filepath.Join(wd, "data", "storefront.db")),
		CatalogSeed:   GetEnvBasedSetting("CATALOG_SEED_FILE"),
		AllowedOrigin: GetEnvBasedSetting("ALLOWED_ORIGIN"),
		DefaultShopID: intSettingOr("DEFAULT_SHOP_ID", 1),
		Logger:        LoggerConfig(),
		Menu:          LoadMenuConfig(),
	}

	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if cfg.DefaultShopID == 0 {
		return nil, fmt.Errorf("DEFAULT_SHOP_ID must be a positive shop id")
	}

	return cfg, nil
}

// LoggerConfig returns a logger.Config populated from the environment.
func LoggerConfig() logger.Config {
	return logger.Config{
		LogsDirectory: settingOr("LOGS_DIRECTORY", "./logs"),
		LogFileFormat: settingOr("LOG_FILE_FORMAT", "storefront_%s.log"),
		TimeZone:      settingOr("TIME_ZONE", "Local"),
		Level:         settingOr("LOG_LEVEL", "INFO"),
		Console:       os.Getenv("LOG_CONSOLE") != "false",
	}
}

// LoadMenuConfig reads the advancedMenu settings.
func LoadMenuConfig() MenuConfig {
	return MenuConfig{
		Levels:       intSettingOr("ADVANCED_MENU_LEVELS", DefaultMenuLevels),
		ColumnAmount: intSettingOr("ADVANCED_MENU_COLUMN_AMOUNT", DefaultMenuColumnAmount),
		HoverDelay:   intSettingOr("ADVANCED_MENU_HOVER_DELAY", DefaultMenuHoverDelay),
	}
}

// Address is host:port for the HTTP server.
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

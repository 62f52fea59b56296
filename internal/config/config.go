package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Display  DisplayConfig  `json:"display"`
	Render   RenderConfig   `json:"render"`
	Security SecurityConfig `json:"security"`
	Logging  LoggingConfig  `json:"logging"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Database        string        `json:"database"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	PoolSize        int           `json:"pool_size"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
}

type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// DisplayConfig describes the display the rendered barcodes target. Density
// converts density-independent units to pixels; screen width bounds
// downscaled renders.
type DisplayConfig struct {
	Density           float64 `json:"density"`
	ScreenWidthPixels int     `json:"screen_width_pixels"`
}

type RenderConfig struct {
	// MaxPixels bounds the pixels a single render may allocate.
	MaxPixels int `json:"max_pixels"`

	// PreviewWidth and PreviewHeight are the default preview surface size.
	PreviewWidth  int `json:"preview_width"`
	PreviewHeight int `json:"preview_height"`

	// ShowFallback enables the example-payload fallback for failed encodes.
	ShowFallback bool `json:"show_fallback"`

	// Workers is the background render worker count.
	Workers int `json:"workers"`
}

type SecurityConfig struct {
	// AdminTokenHash is the bcrypt hash admin requests must match.
	AdminTokenHash string `json:"admin_token_hash"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

func LoadConfig(path string) (*Config, error) {
	// Start with default config
	config := getDefaultConfig()

	// Override with environment variables if they exist
	loadFromEnvironment(config)

	// Try to load from file if it exists
	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, err
		}
		// Override again with environment variables to give them priority
		loadFromEnvironment(config)
	}

	return config, nil
}

func (c *Config) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}

func getDefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			Database:        "cardwallet",
			Username:        "root",
			Password:        "",
			PoolSize:        5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Display: DisplayConfig{
			Density:           1.0,
			ScreenWidthPixels: 1080,
		},
		Render: RenderConfig{
			MaxPixels:     16 << 20,
			PreviewWidth:  600,
			PreviewHeight: 600,
			ShowFallback:  true,
			Workers:       4,
		},
		Security: SecurityConfig{
			AdminTokenHash: "",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "logs/app.log",
		},
	}
}

// loadFromEnvironment loads configuration from environment variables
func loadFromEnvironment(config *Config) {
	// Database configuration
	if host := os.Getenv("DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Database.Port = p
		}
	}
	if database := os.Getenv("DB_NAME"); database != "" {
		config.Database.Database = database
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		config.Database.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}

	// Server configuration
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Display configuration
	if density := os.Getenv("DISPLAY_DENSITY"); density != "" {
		if d, err := strconv.ParseFloat(density, 64); err == nil {
			config.Display.Density = d
		}
	}
	if width := os.Getenv("DISPLAY_SCREEN_WIDTH"); width != "" {
		if w, err := strconv.Atoi(width); err == nil {
			config.Display.ScreenWidthPixels = w
		}
	}

	// Render configuration
	if maxPixels := os.Getenv("RENDER_MAX_PIXELS"); maxPixels != "" {
		if m, err := strconv.Atoi(maxPixels); err == nil {
			config.Render.MaxPixels = m
		}
	}
	if fallback := os.Getenv("RENDER_SHOW_FALLBACK"); fallback != "" {
		config.Render.ShowFallback = fallback == "true"
	}
	if workers := os.Getenv("RENDER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			config.Render.Workers = w
		}
	}

	// Security configuration
	if hash := os.Getenv("ADMIN_TOKEN_HASH"); hash != "" {
		config.Security.AdminTokenHash = hash
	}

	// Logging configuration
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		config.Logging.File = file
	}
}

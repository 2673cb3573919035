package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, local HTTP API, the remote stock
// API, the lookup cache, the capture device and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxFrameBytes limits the size of an uploaded frame
		MaxFrameBytes int64 `env:"HTTP_MAX_FRAME_BYTES" env-default:"10485760" yaml:"maxFrameBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// CORSOrigins lists the browser origins allowed to call the API
		CORSOrigins []string `env:"HTTP_CORS_ORIGINS" env-default:"*" env-separator:"," yaml:"corsOrigins"`
	} `yaml:"http"`

	// StockAPI configures the remote stock REST API
	StockAPI struct {
		// BaseURL is the scheme and host of the API, without the /api prefix
		BaseURL string `env:"STOCK_API_BASE_URL" env-default:"http://localhost:5000" yaml:"baseURL"`
		// Timeout bounds every request to the API
		Timeout time.Duration `env:"STOCK_API_TIMEOUT" env-default:"10s" yaml:"timeout"`
		// LookupTimeout bounds a single product lookup started by a scan
		LookupTimeout time.Duration `env:"STOCK_API_LOOKUP_TIMEOUT" env-default:"5s" yaml:"lookupTimeout"`
	} `yaml:"stockAPI"`

	// Cache configures the barcode lookup cache
	Cache struct {
		// Type is one of memory, redis or none
		Type string `env:"CACHE_TYPE" env-default:"memory" yaml:"type"`
		// TTL is how long a looked-up product stays cached
		TTL time.Duration `env:"CACHE_TTL" env-default:"10m" yaml:"ttl"`
		// CleanupInterval is how often expired entries are purged from the memory cache
		CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" env-default:"1m" yaml:"cleanupInterval"`
		// Redis holds the connection settings used when Type is redis
		Redis struct {
			Addr      string `env:"REDIS_ADDR" env-default:"localhost:6379" yaml:"addr"`
			Password  string `env:"REDIS_PASSWORD" yaml:"password"`
			DB        int    `env:"REDIS_DB" env-default:"0" yaml:"db"`
			KeyPrefix string `env:"REDIS_KEY_PREFIX" env-default:"stockscan:lookup" yaml:"keyPrefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	// Camera configures the capture device
	Camera struct {
		// Dir is the directory the capture device writes snapshots to. Empty disables the camera.
		Dir string `env:"CAMERA_DIR" yaml:"dir"`
		// FrameInterval is the delay between two frames
		FrameInterval time.Duration `env:"CAMERA_FRAME_INTERVAL" env-default:"100ms" yaml:"frameInterval"`
		// Formats restricts decoding to these symbologies. Empty means all supported ones.
		Formats []string `env:"CAMERA_FORMATS" env-separator:"," yaml:"formats"`
		// MaxFramePixels bounds the declared width*height of a decoded frame, uploaded or captured
		MaxFramePixels int64 `env:"CAMERA_MAX_FRAME_PIXELS" env-default:"16777216" yaml:"maxFramePixels"`
	} `yaml:"camera"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads the yaml config file at configPath, then applies environment
// variables. Variables defined in a .env file of the working directory are
// loaded first. A missing config file is not an error; defaults and the
// environment are used instead.
func Load(configPath string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	_, err := os.Stat(configPath)
	switch {
	case err == nil:
		err = cleanenv.ReadConfig(configPath, &cfg)
	case errors.Is(err, fs.ErrNotExist):
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "CAREGRID_CONFIG"

	ReachabilityHead    = "head"
	ReachabilityBrowser = "browser"

	defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
)

// Config holds all application configuration loaded from an optional YAML
// file and environment variables.
type Config struct {
	InputPath string `yaml:"inputPath"`
	OutputDir string `yaml:"outputDir"`
	LogLevel  string `yaml:"logLevel"`

	GoogleMapsAPIKey   string        `yaml:"googleMapsApiKey"`
	GeocodeURL         string        `yaml:"geocodeUrl"`
	GeocodeTimeout     time.Duration `yaml:"geocodeTimeout"`
	GeocodeRateLimitMs int           `yaml:"geocodeRateLimitMs"`

	ReachabilityMode    string        `yaml:"reachabilityMode"`
	ReachabilityTimeout time.Duration `yaml:"reachabilityTimeout"`
	DemoDomains         []string      `yaml:"demoDomains"`
	ChromeBin           string        `yaml:"chromeBin"`

	APIBase        string        `yaml:"apiBase"`
	APIToken       string        `yaml:"apiToken"`
	PublishTimeout time.Duration `yaml:"publishTimeout"`

	DatabaseURL      string `yaml:"databaseUrl"`
	DBConnectRetries int    `yaml:"dbConnectRetries"`
}

// Load reads the .env file, overlays the YAML file named by CAREGRID_CONFIG
// (if any) and finally applies environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := defaults()

	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			log.Printf("[config] %v (ignoring file)", err)
		}
	}

	cfg.applyEnv()
	return cfg
}

func defaults() *Config {
	return &Config{
		InputPath:           "input/clinics_sample.csv",
		OutputDir:           "output",
		LogLevel:            "info",
		GeocodeURL:          defaultGeocodeURL,
		GeocodeTimeout:      5 * time.Second,
		ReachabilityMode:    ReachabilityHead,
		ReachabilityTimeout: 5 * time.Second,
		DemoDomains:         []string{"example.com"},
		PublishTimeout:      30 * time.Second,
		DBConnectRetries:    5,
	}
}

func (c *Config) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}

	c.merge(file)
	return nil
}

// merge copies every non-zero field of override onto c.
func (c *Config) merge(o Config) {
	setString(&c.InputPath, o.InputPath)
	setString(&c.OutputDir, o.OutputDir)
	setString(&c.LogLevel, o.LogLevel)
	setString(&c.GoogleMapsAPIKey, o.GoogleMapsAPIKey)
	setString(&c.GeocodeURL, o.GeocodeURL)
	setString(&c.ReachabilityMode, o.ReachabilityMode)
	setString(&c.ChromeBin, o.ChromeBin)
	setString(&c.APIBase, o.APIBase)
	setString(&c.APIToken, o.APIToken)
	setString(&c.DatabaseURL, o.DatabaseURL)

	if o.GeocodeTimeout > 0 {
		c.GeocodeTimeout = o.GeocodeTimeout
	}
	if o.ReachabilityTimeout > 0 {
		c.ReachabilityTimeout = o.ReachabilityTimeout
	}
	if o.PublishTimeout > 0 {
		c.PublishTimeout = o.PublishTimeout
	}
	if o.GeocodeRateLimitMs > 0 {
		c.GeocodeRateLimitMs = o.GeocodeRateLimitMs
	}
	if o.DBConnectRetries > 0 {
		c.DBConnectRetries = o.DBConnectRetries
	}
	if len(o.DemoDomains) > 0 {
		c.DemoDomains = o.DemoDomains
	}
}

func (c *Config) applyEnv() {
	c.InputPath = getEnv("INPUT_PATH", c.InputPath)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.GoogleMapsAPIKey = getEnv("GOOGLE_MAPS_API_KEY", c.GoogleMapsAPIKey)
	c.GeocodeURL = getEnv("GEOCODE_URL", c.GeocodeURL)
	c.GeocodeTimeout = getEnvDuration("GEOCODE_TIMEOUT", c.GeocodeTimeout)
	c.GeocodeRateLimitMs = getEnvInt("GEOCODE_RATE_LIMIT_MS", c.GeocodeRateLimitMs)

	c.ReachabilityMode = strings.ToLower(getEnv("REACHABILITY_MODE", c.ReachabilityMode))
	c.ReachabilityTimeout = getEnvDuration("REACHABILITY_TIMEOUT", c.ReachabilityTimeout)
	c.DemoDomains = getEnvList("DEMO_DOMAINS", c.DemoDomains)
	c.ChromeBin = getEnv("CHROME_BIN", c.ChromeBin)

	c.APIBase = getEnv("API_BASE", c.APIBase)
	c.APIToken = getEnv("API_TOKEN", c.APIToken)
	c.PublishTimeout = getEnvDuration("PUBLISH_TIMEOUT", c.PublishTimeout)

	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DBConnectRetries = getEnvInt("DB_CONNECT_RETRIES", c.DBConnectRetries)
}

// PublishEnabled reports whether a catalog endpoint is configured.
func (c *Config) PublishEnabled() bool {
	return c.APIBase != ""
}

// Validate checks settings that would make a collaborator unusable.
// Missing optional collaborators are not errors; malformed ones are.
func (c *Config) Validate() error {
	var errs []error

	if c.APIBase != "" {
		if err := checkURL("API_BASE", c.APIBase); err != nil {
			errs = append(errs, err)
		}
		if c.APIToken == "" {
			errs = append(errs, errors.New("API_TOKEN is empty while API_BASE is set"))
		}
	}
	if err := checkURL("GEOCODE_URL", c.GeocodeURL); err != nil {
		errs = append(errs, err)
	}
	if c.ReachabilityMode != ReachabilityHead && c.ReachabilityMode != ReachabilityBrowser {
		errs = append(errs, fmt.Errorf("REACHABILITY_MODE must be %q or %q, got %q",
			ReachabilityHead, ReachabilityBrowser, c.ReachabilityMode))
	}
	if c.GeocodeTimeout <= 0 || c.ReachabilityTimeout <= 0 || c.PublishTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}

	return errors.Join(errs...)
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s is not an absolute URL: %q", key, raw)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("5s") or plain seconds ("5").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

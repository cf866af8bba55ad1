package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"150s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
		// extract requests carry whole pages
		MaxBodyBytes   int64    `yaml:"max_body_bytes" default:"5242880"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Extractor struct {
		DebounceDelay        time.Duration `yaml:"debounce_delay" default:"1s"`
		DebounceMode         string        `yaml:"debounce_mode" default:"debounce"` // debounce or fixed
		MinDescriptionLength int           `yaml:"min_description_length" default:"100"`
	} `yaml:"extractor"`

	Browser struct {
		Headless          bool          `yaml:"headless" default:"true"`
		Stealth           bool          `yaml:"stealth" default:"true"`
		UserAgent         string        `yaml:"user_agent"`
		NavigationTimeout time.Duration `yaml:"navigation_timeout" default:"30s"`
		MaxPages          int           `yaml:"max_pages" default:"5"`
		BinPath           string        `yaml:"bin_path"`
	} `yaml:"browser"`

	Firecrawl struct {
		APIKey  string        `yaml:"api_key"`
		APIURL  string        `yaml:"api_url" default:"https://api.firecrawl.dev"`
		Timeout time.Duration `yaml:"timeout" default:"60s"`
	} `yaml:"firecrawl"`

	RateLimit struct {
		PerHostPerMinute int `yaml:"per_host_per_minute" default:"30"`
		Burst            int `yaml:"burst" default:"5"`
	} `yaml:"rate_limit"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-5-haiku-latest"`
		MaxTokens   int           `yaml:"max_tokens" default:"2048"`
		Temperature float32       `yaml:"temperature" default:"0.3"`
		Timeout     time.Duration `yaml:"timeout" default:"60s"`
	} `yaml:"llm"`

	Redis struct {
		URL      string        `yaml:"url"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
		Channel  string        `yaml:"channel" default:"jobsight:postings"`
		TTL      time.Duration `yaml:"ttl" default:"24h"`
	} `yaml:"redis"`

	Postgres struct {
		DSN      string `yaml:"dsn"`
		MaxConns int32  `yaml:"max_conns" default:"4"`
	} `yaml:"postgres"`

	Cleanup struct {
		Schedule    string        `yaml:"schedule" default:"@every 1m"`
		IdleTimeout time.Duration `yaml:"idle_timeout" default:"30m"`
	} `yaml:"cleanup"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []LoggingAdapter `yaml:"adapters"`
	} `yaml:"logging"`
}

// LoggingAdapter is one entry of logging.adapters
type LoggingAdapter struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with its value; unset variables are left as-is.
// ${VAR:-default} falls back to default.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		expr := match[2 : len(match)-1]
		name, fallback, hasFallback := strings.Cut(expr, ":-")
		if val := os.Getenv(name); val != "" {
			return val
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 150 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.MaxBodyBytes = 5 << 20

	config.Extractor.DebounceDelay = time.Second
	config.Extractor.DebounceMode = "debounce"
	config.Extractor.MinDescriptionLength = 100

	config.Browser.Headless = true
	config.Browser.Stealth = true
	config.Browser.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	config.Browser.NavigationTimeout = 30 * time.Second
	config.Browser.MaxPages = 5

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Firecrawl.Timeout = 60 * time.Second

	config.RateLimit.PerHostPerMinute = 30
	config.RateLimit.Burst = 5

	config.LLM.Provider = "claude"
	config.LLM.Model = "claude-3-5-haiku-latest"
	config.LLM.MaxTokens = 2048
	config.LLM.Temperature = 0.3
	config.LLM.Timeout = 60 * time.Second

	config.Redis.Timeout = 5 * time.Second
	config.Redis.Channel = "jobsight:postings"
	config.Redis.TTL = 24 * time.Hour

	config.Postgres.MaxConns = 4

	config.Cleanup.Schedule = "@every 1m"
	config.Cleanup.IdleTimeout = 30 * time.Minute

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Adapters = []LoggingAdapter{
		{Name: "stdout", Type: "stdout", Enabled: true, Options: map[string]interface{}{"format": "json"}},
		{Name: "ring", Type: "ring", Enabled: true, Options: map[string]interface{}{"capacity": 500}},
	}

	return config
}

// LoadConfig loads configuration from file and environment variables.
// A missing file is not an error; a malformed one is.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), config); err != nil {
				return nil, err
			}
		}
	}

	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}

	if delay := os.Getenv("EXTRACTOR_DEBOUNCE_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Extractor.DebounceDelay = d
		}
	}

	if mode := os.Getenv("EXTRACTOR_DEBOUNCE_MODE"); mode != "" {
		c.Extractor.DebounceMode = mode
	}

	if headless := os.Getenv("BROWSER_HEADLESS"); headless != "" {
		c.Browser.Headless = headless == "true" || headless == "1"
	}

	if bin := os.Getenv("BROWSER_BIN"); bin != "" {
		c.Browser.BinPath = bin
	}

	if maxPages := os.Getenv("BROWSER_MAX_PAGES"); maxPages != "" {
		if n, err := strconv.Atoi(maxPages); err == nil {
			c.Browser.MaxPages = n
		}
	}

	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Firecrawl.APIURL = firecrawlAPIURL
	}

	if perMinute := os.Getenv("RATE_LIMIT_PER_HOST"); perMinute != "" {
		if n, err := strconv.Atoi(perMinute); err == nil {
			c.RateLimit.PerHostPerMinute = n
		}
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	// ANTHROPIC_API_KEY is what the SDK itself reads
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Postgres.DSN = dsn
	}

	if idle := os.Getenv("SESSION_IDLE_TIMEOUT"); idle != "" {
		if d, err := time.ParseDuration(idle); err == nil {
			c.Cleanup.IdleTimeout = d
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	c.loadLoggingAdapterEnvVars()
}

// loadLoggingAdapterEnvVars applies LOG_FILE_PATH to every file adapter
func (c *Config) loadLoggingAdapterEnvVars() {
	path := os.Getenv("LOG_FILE_PATH")
	if path == "" {
		return
	}
	for i := range c.Logging.Adapters {
		adapter := &c.Logging.Adapters[i]
		if adapter.Type != "file" {
			continue
		}
		if adapter.Options == nil {
			adapter.Options = make(map[string]interface{})
		}
		adapter.Options["file_path"] = path
	}
}

// Address returns host:port for the listener
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

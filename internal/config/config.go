package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverOracle = "oracle"
)

// Supported LLM providers.
const (
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Quiz    QuizConfig    `mapstructure:"quiz"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Client  ClientConfig  `mapstructure:"client"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	AllowOrigins string        `mapstructure:"allow_origins"`
}

type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	// Path is the database file for the sqlite driver.
	Path string `mapstructure:"path"`
}

// RedisConfig configures the quiz detail cache. An empty Address disables caching.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	QuizTTL  time.Duration `mapstructure:"quiz_ttl"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type QuizConfig struct {
	NumQuestions    int `mapstructure:"num_questions"`
	NumOptions      int `mapstructure:"num_options"`
	MaxArticleChars int `mapstructure:"max_article_chars"`
}

type ScraperConfig struct {
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxPageBytes int64         `mapstructure:"max_page_bytes"` // response body cap
}

type LoggerConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"`
}

// ClientConfig is used by the terminal player.
type ClientConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Lang    string        `mapstructure:"lang"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.allow_origins", "*")

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "wikiquiz")
	v.SetDefault("db.path", "wikiquiz.db")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.quiz_ttl", time.Hour)

	v.SetDefault("llm.provider", ProviderGroq)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("quiz.num_questions", 5)
	v.SetDefault("quiz.num_options", 4)
	v.SetDefault("quiz.max_article_chars", 4000)

	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (compatible; wiki-quiz/1.0)")
	v.SetDefault("scraper.timeout", 15*time.Second)
	v.SetDefault("scraper.max_page_bytes", 8<<20)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("client.api_url", "http://localhost:8000")
	v.SetDefault("client.timeout", 90*time.Second)
	v.SetDefault("client.lang", "en")
}

// LoadConfig reads config.yaml, an optional .env file and the environment.
// Environment variables win, using upper-case keys with "." replaced by "_"
// (for example DB_DRIVER or LLM_API_KEY).
func LoadConfig(configPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(configPaths) > 0 {
		for _, p := range configPaths {
			v.AddConfigPath(p)
		}
	} else if os.Getenv("ENV") == "test" {
		// For test environment, look for config in the project root
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Provider-specific key names are accepted too.
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverSQLite, DriverMySQL, DriverOracle:
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	switch c.LLM.Provider {
	case ProviderGroq, ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.Quiz.NumQuestions < 1 || c.Quiz.NumOptions < 2 {
		return fmt.Errorf("quiz needs at least 1 question and 2 options, got %d and %d",
			c.Quiz.NumQuestions, c.Quiz.NumOptions)
	}
	return nil
}

// GetDSN builds the data source name for the configured driver.
func (c *Config) GetDSN() string {
	switch c.DB.Driver {
	case DriverOracle:
		port := c.DB.Port
		if port == 0 {
			port = 1521
		}
		return go_ora.BuildUrl(c.DB.Host, port, c.DB.DBName, c.DB.User, c.DB.Password, nil)
	case DriverMySQL:
		port := c.DB.Port
		if port == 0 {
			port = 3306
		}
		mc := mysql.NewConfig()
		mc.User = c.DB.User
		mc.Passwd = c.DB.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.DB.Host, port)
		mc.DBName = c.DB.DBName
		mc.ParseTime = true
		return mc.FormatDSN()
	default:
		return c.DB.Path
	}
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	WordStore WordStoreConfig `mapstructure:"word_store"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
}

type ServerConfig struct {
	Port      int        `mapstructure:"port" validate:"min=1,max=65535"`
	BulkLimit int        `mapstructure:"bulk_limit" validate:"min=1"`
	CORS      CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

// WordStoreConfig points the browser at its entry source.
// CSVFile takes precedence over BaseURL when both are set.
type WordStoreConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	CSVFile string `mapstructure:"csv_file" validate:"omitempty,file"`
}

type CacheConfig struct {
	Backend    string      `mapstructure:"backend" validate:"oneof=memory file sqlite redis"`
	Directory  string      `mapstructure:"directory" validate:"required_if=Backend file"`
	SQLitePath string      `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

type BrowserConfig struct {
	PageSize int    `mapstructure:"page_size" validate:"oneof=10 20 50 100"`
	Level    string `mapstructure:"level" validate:"omitempty,cefr"`
}

type OutputsConfig struct {
	PDFDirectory string `mapstructure:"pdf_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/oxword")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.bulk_limit", 5000)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "oxword")
	v.SetDefault("database.username", "user")
	v.SetDefault("word_store.base_url", "http://localhost:8000")
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.directory", filepath.Join(".cache", "oxword"))
	v.SetDefault("cache.sqlite_path", filepath.Join(".cache", "oxword.db"))
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("browser.page_size", 20)
	v.SetDefault("outputs.pdf_directory", filepath.Join("outputs", "pdf"))

	if err := v.BindEnv("word_store.base_url", "OXWORD_WORD_STORE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind OXWORD_WORD_STORE_URL environment variable: %w", err)
	}
	// Secrets come from environment variables
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("cache.redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

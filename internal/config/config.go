package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	AliExpress AliExpressConfig `mapstructure:"aliexpress"`
	Browser    BrowserConfig    `mapstructure:"browser"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Import     ImportConfig     `mapstructure:"import"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// AliExpressConfig holds scraping configuration for the marketplace site
type AliExpressConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	ScrollDistance       int      `mapstructure:"scroll_distance"`
	ScrollDelayMs        int      `mapstructure:"scroll_delay_ms"`
	MaxScrollSteps       int      `mapstructure:"max_scroll_steps"`
	FetchTimeout         int      `mapstructure:"fetch_timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Proxies              []string `mapstructure:"proxies"`
}

// ScrollDelay returns the pause between scroll steps.
func (c AliExpressConfig) ScrollDelay() time.Duration {
	return time.Duration(c.ScrollDelayMs) * time.Millisecond
}

// BrowserConfig holds browser automation configuration
type BrowserConfig struct {
	BinPath     string `mapstructure:"bin_path"`
	Headless    bool   `mapstructure:"headless"`
	PageTimeout int    `mapstructure:"page_timeout"`
}

// CatalogConfig holds the known store entity ids reused by imports
type CatalogConfig struct {
	ProductLayoutID      string `mapstructure:"product_layout_id"`
	CategoryLayoutID     string `mapstructure:"category_layout_id"`
	ColorAttributeID     string `mapstructure:"color_attribute_id"`
	SizeAttributeID      string `mapstructure:"size_attribute_id"`
	ShipsFromAttributeID string `mapstructure:"ships_from_attribute_id"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
	MaxWorkers    int    `mapstructure:"max_workers"`
}

// ImportConfig holds the default import policy plus an optional job to
// enqueue on startup
type ImportConfig struct {
	ProductID    int64  `mapstructure:"product_id"`
	CategoryID   string `mapstructure:"category_id"`
	CategoryName string `mapstructure:"category_name"`

	PublishProducts                bool   `mapstructure:"publish_products"`
	PublishCategories              bool   `mapstructure:"publish_categories"`
	IncludeInMenu                  bool   `mapstructure:"include_in_menu"`
	ShowOnHomePage                 bool   `mapstructure:"show_on_home_page"`
	AllowCustomersToSelectPageSize bool   `mapstructure:"allow_customers_to_select_page_size"`
	PageSize                       int    `mapstructure:"page_size"`
	PageSizeOptions                string `mapstructure:"page_size_options"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")

	viper.SetDefault("aliexpress.base_url", "https://www.aliexpress.com")
	viper.SetDefault("aliexpress.scroll_distance", 1000)
	viper.SetDefault("aliexpress.scroll_delay_ms", 100)
	viper.SetDefault("aliexpress.max_scroll_steps", 200)
	viper.SetDefault("aliexpress.fetch_timeout", 30)
	viper.SetDefault("aliexpress.max_retries", 3)
	viper.SetDefault("aliexpress.max_requests_per_second", 5)

	viper.SetDefault("browser.bin_path", "")
	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.page_timeout", 60)

	viper.SetDefault("catalog.product_layout_id", "621026006e254b2d02acf47f")
	viper.SetDefault("catalog.category_layout_id", "621026006e254b2d02acf481")
	viper.SetDefault("catalog.color_attribute_id", "621026006e254b2d02acf4b1")
	viper.SetDefault("catalog.size_attribute_id", "621026006e254b2d02acf4b7")
	viper.SetDefault("catalog.ships_from_attribute_id", "62154c69ce1c3af9f2761fc9")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "aliexpress")
	viper.SetDefault("database.user", "aliexpress_user")
	viper.SetDefault("database.password", "aliexpress_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "redis_pass")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "aliexpress_consumer")
	viper.SetDefault("redis.min_idle_time", 120)
	viper.SetDefault("redis.max_workers", 1)

	viper.SetDefault("import.publish_products", true)
	viper.SetDefault("import.publish_categories", true)
	viper.SetDefault("import.include_in_menu", true)
	viper.SetDefault("import.show_on_home_page", false)
	viper.SetDefault("import.allow_customers_to_select_page_size", true)
	viper.SetDefault("import.page_size", 10)
	viper.SetDefault("import.page_size_options", "10,15,20")
}

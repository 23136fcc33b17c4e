package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// PlacesSource lieux の取得元
const (
	SourceAPI      = "api"
	SourceSupabase = "supabase"
	SourcePostgres = "postgres"
)

// Config アプリケーション設定
// 優先順位: デフォルト値 → TOMLファイル（EXPLORETG_CONFIG）→ 環境変数
type Config struct {
	Server   ServerConfig   `toml:"server"`
	LieuxAPI LieuxAPIConfig `toml:"lieux_api"`
	Explore  ExploreConfig  `toml:"explore"`
	Supabase SupabaseConfig `toml:"supabase"`
	Redis    RedisConfig    `toml:"redis"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Port           string  `toml:"port" validate:"required,numeric"`
	GinMode        string  `toml:"gin_mode" validate:"omitempty,oneof=debug release test"`
	CookieSecure   bool    `toml:"cookie_secure"`
	RateLimitQPS   float64 `toml:"rate_limit_qps" validate:"gte=0"`
	RateLimitBurst int     `toml:"rate_limit_burst" validate:"gte=0"`
}

// LieuxAPIConfig 外部の lieux REST API
type LieuxAPIConfig struct {
	URL     string   `toml:"url" validate:"required,url"`
	Timeout Duration `toml:"timeout"`
	// Token ユーザーセッションが無いとき（定期ウォームなど）に使うサービストークン
	Token string `toml:"token"`
}

type ExploreConfig struct {
	AssetBaseURL string `toml:"asset_base_url"`
	NoImageURL   string `toml:"no_image_url" validate:"required"`
	PageSize     int    `toml:"page_size" validate:"gte=1,lte=100"`
	PlacesSource string `toml:"places_source" validate:"oneof=api supabase postgres"`
}

type SupabaseConfig struct {
	URL        string `toml:"url"`
	AnonKey    string `toml:"anon_key"`
	DBPassword string `toml:"db_password"`
}

type RedisConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Pass string `toml:"pass"`
	DB   int    `toml:"db" validate:"gte=0"`
}

// Addr host:port。Host 未設定なら空（キャッシュ無効）
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type SnapshotConfig struct {
	TTL Duration `toml:"ttl"`
	// RefreshCron 空ならウォームしない
	RefreshCron string `toml:"refresh_cron"`
}

type LoggingConfig struct {
	Level  string `toml:"level" validate:"oneof=trace debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

// Duration TOML では "10s" のような文字列で書ける time.Duration
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// NewDefaultConfig デフォルト値の設定を返す
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			GinMode:        "release",
			RateLimitQPS:   20,
			RateLimitBurst: 40,
		},
		LieuxAPI: LieuxAPIConfig{
			URL:     "http://localhost:3000",
			Timeout: Duration{10 * time.Second},
		},
		Explore: ExploreConfig{
			NoImageURL:   "/no-image.png",
			PageSize:     12,
			PlacesSource: SourceAPI,
		},
		Redis: RedisConfig{
			Port: "6379",
		},
		Snapshot: SnapshotConfig{
			TTL: Duration{5 * time.Minute},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load .env を読み込み、TOMLファイルと環境変数で上書きした設定を検証して返す
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}
	return LoadFromFile(os.Getenv("EXPLORETG_CONFIG"))
}

// LoadFromFile path の TOML（空なら省略）と環境変数から設定を作る
func LoadFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイル %s の読み込みに失敗: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイル %s のパースに失敗: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 値の範囲と、取得元ごとに必要な項目を検証する
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("設定値が不正です: %w", err)
	}

	if c.LieuxAPI.Timeout.Duration <= 0 {
		return fmt.Errorf("LIEUX_API_TIMEOUT は正の期間で指定してください")
	}
	if c.Snapshot.TTL.Duration < 0 {
		return fmt.Errorf("SNAPSHOT_TTL は0以上で指定してください")
	}

	switch c.Explore.PlacesSource {
	case SourceSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return fmt.Errorf("PLACES_SOURCE=supabase には SUPABASE_URL と SUPABASE_ANON_KEY が必要です")
		}
	case SourcePostgres:
		if c.Supabase.URL == "" || c.Supabase.DBPassword == "" {
			return fmt.Errorf("PLACES_SOURCE=postgres には SUPABASE_URL と SUPABASE_DB_PASSWORD が必要です")
		}
	}

	if c.Snapshot.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Snapshot.RefreshCron); err != nil {
			return fmt.Errorf("SNAPSHOT_REFRESH_CRON が不正です: %w", err)
		}
	}
	return nil
}

// applyEnvOverrides 環境変数で上書きする
func applyEnvOverrides(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.GinMode, "GIN_MODE")
	if err := setBool(&cfg.Server.CookieSecure, "COOKIE_SECURE"); err != nil {
		return err
	}
	if err := setFloat(&cfg.Server.RateLimitQPS, "RATE_LIMIT_QPS"); err != nil {
		return err
	}
	if err := setInt(&cfg.Server.RateLimitBurst, "RATE_LIMIT_BURST"); err != nil {
		return err
	}

	setString(&cfg.LieuxAPI.URL, "LIEUX_API_URL")
	setString(&cfg.LieuxAPI.Token, "LIEUX_API_TOKEN")
	if err := setDuration(&cfg.LieuxAPI.Timeout.Duration, "LIEUX_API_TIMEOUT"); err != nil {
		return err
	}

	setString(&cfg.Explore.AssetBaseURL, "ASSET_BASE_URL")
	setString(&cfg.Explore.NoImageURL, "NO_IMAGE_URL")
	setString(&cfg.Explore.PlacesSource, "PLACES_SOURCE")
	cfg.Explore.PlacesSource = strings.ToLower(cfg.Explore.PlacesSource)
	if err := setInt(&cfg.Explore.PageSize, "EXPLORE_PAGE_SIZE"); err != nil {
		return err
	}

	setString(&cfg.Supabase.URL, "SUPABASE_URL")
	setString(&cfg.Supabase.AnonKey, "SUPABASE_ANON_KEY")
	setString(&cfg.Supabase.DBPassword, "SUPABASE_DB_PASSWORD")

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setString(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Pass, "REDIS_PASS")
	if err := setInt(&cfg.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}

	if err := setDuration(&cfg.Snapshot.TTL.Duration, "SNAPSHOT_TTL"); err != nil {
		return err
	}
	setString(&cfg.Snapshot.RefreshCron, "SNAPSHOT_REFRESH_CRON")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s は整数で指定してください: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s は数値で指定してください: %w", key, err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s は true/false で指定してください: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s は 10s のような期間で指定してください: %w", key, err)
	}
	*dst = d
	return nil
}

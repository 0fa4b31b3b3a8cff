package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hello-webserver/internal/logger"
	"hello-webserver/internal/server"

	"gopkg.in/yaml.v3"
)

// 実行器の種類
const (
	ExecutorPool  = "pool"
	ExecutorGroup = "group"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Server ServerConfig `yaml:"server" json:"server"`
	Pool   PoolConfig   `yaml:"pool" json:"pool"`
	Admin  AdminConfig  `yaml:"admin" json:"admin"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// ServerConfig は TCP サーバー設定
type ServerConfig struct {
	Addr        string `yaml:"addr" json:"addr"`
	StaticDir   string `yaml:"static_dir" json:"static_dir"`
	SleepDelay  string `yaml:"sleep_delay" json:"sleep_delay"`
	ReadTimeout string `yaml:"read_timeout" json:"read_timeout"`
}

// PoolConfig はワーカープール設定
type PoolConfig struct {
	Size     int    `yaml:"size" json:"size"`
	Executor string `yaml:"executor" json:"executor"`
}

// AdminConfig は管理用 HTTP サーバー設定
type AdminConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default はデフォルト設定を返す
func Default() *FileConfig {
	sc := server.DefaultConfig()
	return &FileConfig{
		Server: ServerConfig{
			Addr:        sc.Addr,
			StaticDir:   sc.StaticDir,
			SleepDelay:  sc.SleepDelay.String(),
			ReadTimeout: sc.ReadTimeout.String(),
		},
		Pool: PoolConfig{
			Size:     4,
			Executor: ExecutorPool,
		},
		Admin: AdminConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9090",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile は設定ファイルを読み込む
// ファイルに書かれていない項目はデフォルト値のまま
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return config, nil
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	if f.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if f.Pool.Size < 1 {
		return fmt.Errorf("pool.size must be at least 1")
	}

	switch f.Pool.Executor {
	case ExecutorPool, ExecutorGroup:
	default:
		return fmt.Errorf("unknown pool.executor: %s", f.Pool.Executor)
	}

	if f.Admin.Enabled && f.Admin.Addr == "" {
		return fmt.Errorf("admin.addr must be set when admin is enabled")
	}

	if _, err := logger.ParseLevel(f.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(f.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log.format: %s", f.Log.Format)
	}

	if _, err := f.ToServerConfig(); err != nil {
		return err
	}
	return nil
}

// ToServerConfig は server.Config に変換する
func (f *FileConfig) ToServerConfig() (server.Config, error) {
	config := server.DefaultConfig()
	sc := f.Server

	if sc.Addr != "" {
		config.Addr = sc.Addr
	}
	if sc.StaticDir != "" {
		config.StaticDir = sc.StaticDir
	}
	if sc.SleepDelay != "" {
		d, err := parseDuration(sc.SleepDelay)
		if err != nil {
			return config, fmt.Errorf("invalid server.sleep_delay: %w", err)
		}
		config.SleepDelay = d
	}
	if sc.ReadTimeout != "" {
		d, err := parseDuration(sc.ReadTimeout)
		if err != nil {
			return config, fmt.Errorf("invalid server.read_timeout: %w", err)
		}
		config.ReadTimeout = d
	}

	return config, nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must be non-negative: %s", s)
	}
	return d, nil
}

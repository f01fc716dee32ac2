package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 应用配置
type Config struct {
	Provider   string        `env:"PITCHFORGE_PROVIDER" envDefault:"gemini"` // gemini | ark
	SlideDelay time.Duration `env:"PITCHFORGE_SLIDE_DELAY" envDefault:"500ms"`
	Timeout    time.Duration `env:"PITCHFORGE_HTTP_TIMEOUT" envDefault:"30s"`
	Addr       string        `env:"PITCHFORGE_ADDR" envDefault:":8080"`

	Gemini Gemini
	Ark    Ark
	Store  Store
	Log    Log
}

// Gemini Gemini接入参数
type Gemini struct {
	APIKey     string `env:"GEMINI_API_KEY"`
	ViteAPIKey string `env:"VITE_GEMINI_API_KEY"`
	BaseURL    string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	Model      string `env:"GEMINI_MODEL" envDefault:"gemini-pro"`
	Mock       bool   `env:"GEMINI_MOCK" envDefault:"false"`
}

// Key 优先使用 GEMINI_API_KEY
func (g Gemini) Key() string {
	if g.APIKey != "" {
		return g.APIKey
	}
	return g.ViteAPIKey
}

// Ark 火山方舟接入参数
type Ark struct {
	APIKey string `env:"ARK_API_KEY"`
	Model  string `env:"ARK_MODEL"`
	Region string `env:"ARK_REGION" envDefault:"cn-beijing"`
}

// Store 存储配置
type Store struct {
	Driver        string `env:"PITCHFORGE_STORE" envDefault:"memory"` // memory | sqlite | redis
	SQLitePath    string `env:"PITCHFORGE_SQLITE_PATH" envDefault:"./pitchforge.db"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Log 日志配置
type Log struct {
	File   string `env:"PITCHFORGE_LOG_FILE"`
	Level  string `env:"PITCHFORGE_LOG_LEVEL" envDefault:"info"`
	Format string `env:"PITCHFORGE_LOG_FORMAT" envDefault:"text"` // text | json
}

// Load 读取环境变量，envFile 存在时先加载（不覆盖已有变量）
func Load(envFile string) (Config, error) {
	if envFile != "" {
		file, err := filepath.Abs(envFile)
		if err != nil {
			return Config{}, err
		}
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", file, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("can't read config: %w", err)
	}
	switch cfg.Provider {
	case "gemini", "ark":
	default:
		return Config{}, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return cfg, nil
}

// InitLogger 配置logrus，设置了日志文件时按大小轮转
func InitLogger(cfg Log) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File == "" {
		logrus.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		LocalTime:  true,
	}
	logrus.SetOutput(w)
	return w, nil
}

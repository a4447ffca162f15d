package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	deepseekKeyENV    = "DEEPSEEK_API_KEY"
	mexcKeyENV        = "MEXC_API_KEY"
	mexcSecretENV     = "MEXC_SECRET_KEY"
)

// Config — инфраструктурная конфигурация процесса (адреса, ключи, DSN).
// Пользовательские настройки пайплайна живут отдельно в settings-сторе.
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Маркет-дата (DexScreener)
	DexBaseURL string        `yaml:"dex_base_url"`
	DexChainID string        `yaml:"dex_chain_id"`
	DexLimit   int           `yaml:"dex_limit"`
	DexTimeout time.Duration `yaml:"dex_timeout"`

	// Скоринговый движок (DeepSeek-совместимый chat completions API)
	EngineAPIKey  string        `yaml:"engine_api_key"`
	EngineAPIBase string        `yaml:"engine_api_base"`
	EngineModel   string        `yaml:"engine_model"`
	EngineTimeout time.Duration `yaml:"engine_timeout"`
	ScoreWorkers  int           `yaml:"score_workers"`

	// MEXC spot (авто-трейдинг)
	MexcAPIKey    string `yaml:"mexc_api_key"`
	MexcAPISecret string `yaml:"mexc_api_secret"`
	MexcBaseURL   string `yaml:"mexc_base_url"`
}

func NewConfig() (*Config, error) {
	config := Config{
		DexBaseURL:    getenvDefault("DEX_BASE_URL", "https://api.dexscreener.com"),
		DexChainID:    getenvDefault("DEX_CHAIN_ID", "ethereum"),
		DexLimit:      intFromEnv("DEX_LIMIT", 100),
		DexTimeout:    durationFromEnv("DEX_TIMEOUT", "15s"),
		EngineAPIBase: getenvDefault("DEEPSEEK_API_BASE", "https://api.deepseek.com/v1"),
		EngineModel:   getenvDefault("DEEPSEEK_MODEL", "deepseek-chat"),
		EngineTimeout: durationFromEnv("ENGINE_TIMEOUT", "30s"),
		ScoreWorkers:  intFromEnv("SCORE_WORKERS", 4),
		MexcBaseURL:   getenvDefault("MEXC_BASE_URL", "https://api.mexc.com"),
	}
	config.Service.Host = getenvDefault("SERVICE_HOST", "0.0.0.0")
	config.Service.PublicPort = intFromEnv("PUBLIC_PORT", 8000)
	config.Service.AdminPort = intFromEnv("ADMIN_PORT", 8080)
	config.Jaeger.Host = getenvDefault("JAEGER_HOST", "localhost")
	config.Jaeger.Port = intFromEnv("JAEGER_PORT", 6831)

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	if file, err := os.Open("configs/" + configFileName); err == nil {
		decoder := yaml.NewDecoder(file)
		if err = decoder.Decode(&config); err != nil {
			log.Fatalf("Failed to decode config file: %v", err)
		}
		_ = file.Close()
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	if key := os.Getenv(deepseekKeyENV); key != "" {
		config.EngineAPIKey = key
	}
	if key := os.Getenv(mexcKeyENV); key != "" {
		config.MexcAPIKey = key
	}
	if secret := os.Getenv(mexcSecretENV); secret != "" {
		config.MexcAPISecret = secret
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}

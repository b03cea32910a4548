package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultSupportContact = "Feel free to contact our support using email: support@habitbuilder.dev"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabaseDriver   string
	DatabasePath     string
	DatabaseDSN      string
	GinMode          string
	LogLevel         string
	LogFormat        string
	LogMethodCalls   bool
	LogMethodReturns bool
	LogMethodErrors  bool
	MetricsEnabled   bool
	SupportContact   string
}

// Load 读取 .env（若存在）与环境变量，并为缺失项提供安全的默认值。
// 已设置的环境变量优先于 .env 中的同名项。
func Load(envFiles ...string) AppConfig {
	loadEnvFiles(envFiles)

	port := envOr("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		DatabaseDriver:   strings.ToLower(envOr("DATABASE_DRIVER", "sqlite")),
		DatabasePath:     envOr("DATABASE_PATH", "habitbuilder.db"),
		DatabaseDSN:      strings.TrimSpace(os.Getenv("DATABASE_DSN")),
		GinMode:          envOr("GIN_MODE", "release"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "text"),
		LogMethodCalls:   envBool("LOG_METHOD_CALLS", true),
		LogMethodReturns: envBool("LOG_METHOD_RETURNS", true),
		LogMethodErrors:  envBool("LOG_METHOD_ERRORS", true),
		MetricsEnabled:   envBool("METRICS_ENABLED", true),
		SupportContact:   envOr("SUPPORT_CONTACT", defaultSupportContact),
	}
}

func loadEnvFiles(files []string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		// godotenv.Load never overrides variables that are already set.
		_ = godotenv.Load(file)
	}
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabasePath  string
	SessionSecret string
	GinMode       string
	PageSize      int
	ReportReasons []ReasonPair
}

// ReasonPair 是一条举报理由配置：key 入库，label 用于展示。
type ReasonPair struct {
	Key   string
	Label string
}

// 默认举报理由集合，可被 REPORT_REASONS 覆盖。
var defaultReportReasons = []ReasonPair{
	{Key: "spam", Label: "Spam or advertising"},
	{Key: "abuse", Label: "Abusive or harassing"},
	{Key: "off_topic", Label: "Off topic"},
	{Key: "illegal", Label: "Illegal content"},
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "threadlog.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "threadlog-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	pageSize := 20
	if raw := strings.TrimSpace(os.Getenv("PAGE_SIZE")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			pageSize = parsed
		}
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DatabasePath:  databasePath,
		SessionSecret: sessionSecret,
		GinMode:       ginMode,
		PageSize:      pageSize,
		ReportReasons: parseReportReasons(os.Getenv("REPORT_REASONS")),
	}
}

// parseReportReasons 解析 "key:label,key:label" 形式的配置，保持顺序。
func parseReportReasons(raw string) []ReasonPair {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultReportReasons
	}

	var reasons []ReasonPair
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, label, found := strings.Cut(entry, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		label = strings.TrimSpace(label)
		if !found || label == "" {
			label = key
		}
		reasons = append(reasons, ReasonPair{Key: key, Label: label})
	}
	if len(reasons) == 0 {
		return defaultReportReasons
	}
	return reasons
}

package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	DatabaseURL    string
	JudgeAPIKey    string
	JudgeBaseURL   string
	JudgeModel     string
	TypingInterval time.Duration
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.JudgeAPIKey = os.Getenv("JUDGE_API_KEY")
	c.JudgeBaseURL = os.Getenv("JUDGE_BASE_URL")
	c.JudgeModel = getenv("JUDGE_MODEL", "gpt-4o-mini")
	c.TypingInterval = time.Duration(getint("TYPING_INTERVAL_MS", 500)) * time.Millisecond
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

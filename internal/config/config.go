package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	MaxPlayersCap int
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "3001")
	c.MaxPlayersCap = getint("MAX_PLAYERS_CAP", 10)
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
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

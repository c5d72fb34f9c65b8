package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultPepper    = "hFyP2QkXoT_8NcVWb31mJg--ze6wLqS0Ua9RxDPE4sk"
	defaultCookieKey = "Zk7pWAd1sYfB0gN_qL5TvXrCJh3mE8ouK2i6MxHQc9w"
)

func Validate(cfg *AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if driver == "" {
		driver = "postgres"
	}
	if driver != "postgres" && driver != "pg" && driver != "sqlite" {
		return fmt.Errorf("unsupported db_driver: %s", cfg.DBDriver)
	}
	if (driver == "postgres" || driver == "pg") && strings.TrimSpace(cfg.DBURL) == "" {
		return fmt.Errorf("db_url must be set for postgres driver")
	}
	pep := strings.TrimSpace(cfg.Pepper)
	ck := strings.TrimSpace(cfg.CookieKey)
	if pep == "" || ck == "" {
		return fmt.Errorf("pepper and cookie_key must be set via env")
	}
	if !cfg.IsDev() {
		if isDefaultSecret(pep) || isDefaultSecret(ck) {
			return fmt.Errorf("default secrets are not allowed outside APP_ENV=dev")
		}
	}
	if cfg.SessionTTL < time.Minute {
		return fmt.Errorf("session_ttl must be at least one minute")
	}
	if cfg.Security.BanDuration < time.Second {
		return fmt.Errorf("security.ban_duration must be at least one second")
	}
	return nil
}

func isDefaultSecret(val string) bool {
	switch val {
	case defaultPepper, defaultCookieKey:
		return true
	default:
		return false
	}
}

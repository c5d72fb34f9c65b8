package config

import "time"

type AppConfig struct {
	DBDriver      string              `yaml:"db_driver" env:"BGPANEL_DB_DRIVER"`
	DBURL         string              `yaml:"db_url" env:"BGPANEL_DB_URL"`
	DBPath        string              `yaml:"db_path" env:"BGPANEL_DB_PATH"`
	ListenAddr    string              `yaml:"listen_addr" env:"BGPANEL_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	BasePath      string              `yaml:"base_path" env:"BGPANEL_BASE_PATH" env-default:"/"`
	AppEnv        string              `yaml:"app_env" env:"BGPANEL_APP_ENV"`
	SessionTTL    time.Duration       `yaml:"session_ttl" env:"BGPANEL_SESSION_TTL" env-default:"2h"`
	Pepper        string              `yaml:"pepper" env:"BGPANEL_PEPPER"`
	CookieKey     string              `yaml:"cookie_key" env:"BGPANEL_COOKIE_KEY"`
	Maintenance   bool                `yaml:"maintenance_mode" env:"BGPANEL_MAINTENANCE_MODE"`
	KeysDir       string              `yaml:"keys_dir" env:"BGPANEL_KEYS_DIR" env-default:"keys"`
	Security      SecurityConfig      `yaml:"security"`
	Mail          MailConfig          `yaml:"mail"`
	Janitor       JanitorConfig       `yaml:"janitor"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type SecurityConfig struct {
	// BanThreshold failed attempts within BanDuration lock a client out.
	BanThreshold   int           `yaml:"ban_threshold" env:"BGPANEL_BAN_THRESHOLD" env-default:"3"`
	BanDuration    time.Duration `yaml:"ban_duration" env:"BGPANEL_BAN_DURATION" env-default:"10m"`
	RememberMeTTL  time.Duration `yaml:"remember_me_ttl" env:"BGPANEL_REMEMBER_ME_TTL" env-default:"336h"`
	TrustedProxies []string      `yaml:"trusted_proxies" env:"BGPANEL_TRUSTED_PROXIES"`
}

type MailConfig struct {
	SMTPAddr string `yaml:"smtp_addr" env:"BGPANEL_SMTP_ADDR"`
	From     string `yaml:"from" env:"BGPANEL_MAIL_FROM" env-default:"Bright Game Panel System <root@localhost>"`
}

type JanitorConfig struct {
	Enabled        bool   `yaml:"enabled" env:"BGPANEL_JANITOR_ENABLED" env-default:"true"`
	Schedule       string `yaml:"schedule" env:"BGPANEL_JANITOR_SCHEDULE" env-default:"@every 15m"`
	AuditRetention int    `yaml:"audit_retention_days" env:"BGPANEL_AUDIT_RETENTION_DAYS" env-default:"90"`
}

type ObservabilityConfig struct {
	MetricsEnabled bool `yaml:"metrics_enabled" env:"BGPANEL_METRICS_ENABLED"`
}

func (c *AppConfig) IsDev() bool {
	return c != nil && c.AppEnv == "dev"
}

// BanSeconds is the lockout window as whole seconds, for user-facing messages.
func (c *AppConfig) BanSeconds() int {
	if c == nil {
		return 0
	}
	return int(c.Security.BanDuration / time.Second)
}

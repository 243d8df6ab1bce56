package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// AdminAuth es la credencial de referencia del panel admin.
	// El secret y el password hash NUNCA deberían vivir en el YAML en prod:
	// se inyectan por env (ADMIN_JWT_SECRET, ADMIN_PASSWORD_HASH).
	//
	// Si falta cualquiera de los tres campos obligatorios, el servicio NO
	// arranca a medias: cada request responde el error de configuración.
	AdminAuth struct {
		Username        string `yaml:"username"`
		PasswordHash    string `yaml:"password_hash"`     // sha256 hex o PHC $argon2id$
		SigningSecret   string `yaml:"signing_secret"`
		TokenTTLSeconds int    `yaml:"token_ttl_seconds"` // default 3600, floor 300 al emitir
	} `yaml:"admin_auth"`

	Rate struct {
		Enabled bool   `yaml:"enabled"`
		Store   string `yaml:"store"` // memory | redis

		Auth struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"auth"`

		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"rate"`
}

// Load lee el YAML (si path != ""), aplica defaults y overrides por env.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.AdminAuth.TokenTTLSeconds == 0 {
		c.AdminAuth.TokenTTLSeconds = 3600
	}
	if c.Rate.Store == "" {
		c.Rate.Store = "memory"
	}
	if c.Rate.Auth.Limit == 0 {
		c.Rate.Auth.Limit = 10
	}
	if c.Rate.Auth.Window == "" {
		c.Rate.Auth.Window = "1m"
	}

	c.applyEnvOverrides()

	// validate string durations
	if c.Rate.Auth.Window != "" {
		if _, err := time.ParseDuration(c.Rate.Auth.Window); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// AuthWindow retorna la ventana de rate limit del endpoint de auth.
func (c *Config) AuthWindow() time.Duration {
	d, _ := time.ParseDuration(c.Rate.Auth.Window)
	return d
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// ADMIN AUTH
	if v, ok := getEnvStr("ADMIN_USERNAME"); ok {
		c.AdminAuth.Username = v
	}
	if v, ok := getEnvStr("ADMIN_PASSWORD_HASH"); ok {
		c.AdminAuth.PasswordHash = v
	}
	if v, ok := getEnvStr("ADMIN_JWT_SECRET"); ok {
		c.AdminAuth.SigningSecret = v
	}
	if v, ok := getEnvInt("ADMIN_TOKEN_TTL"); ok {
		c.AdminAuth.TokenTTLSeconds = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("RATE_STORE"); ok {
		c.Rate.Store = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvInt("RATE_AUTH_LIMIT"); ok {
		c.Rate.Auth.Limit = v
	}
	if v, ok := getEnvStr("RATE_AUTH_WINDOW"); ok {
		c.Rate.Auth.Window = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Rate.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Rate.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Rate.Redis.Prefix = v
	}
}

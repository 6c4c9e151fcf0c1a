package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"

	"github.com/juliogarciag/personal-site/internal/domain"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	// AnchorScope picks the seed movement for anchorless inserts: "user"
	// looks at the caller's latest movement, "global" at the whole table.
	AnchorScope domain.AnchorScope `env:"MOVEMENT_ANCHOR_SCOPE" envDefault:"user"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if !cfg.AnchorScope.IsValid() {
		return nil, fmt.Errorf("config.Load: MOVEMENT_ANCHOR_SCOPE must be %q or %q, got %q",
			domain.AnchorScopeUser, domain.AnchorScopeGlobal, cfg.AnchorScope)
	}
	return &cfg, nil
}

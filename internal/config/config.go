package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"openbook-server"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Engine   Engine
	Prompts  Prompts
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds cache configuration.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR,notEmpty"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	TopicTTL time.Duration `env:"REDIS_TOPIC_CACHE_TTL" envDefault:"5m"`
}

// Engine governs generated question shape. ChoiceCount covers the answer
// plus its distractors; MaxType bounds the accepted question types.
type Engine struct {
	ChoiceCount int `env:"QUESTION_CHOICE_COUNT" envDefault:"5"`
	MaxType     int `env:"QUESTION_MAX_TYPE" envDefault:"4"`
}

// Prompts holds the question prompt templates. The description prompt is
// assembled as "<prefix> <category><suffix>"; the temporal templates take
// the category name as their single format argument.
type Prompts struct {
	DescriptionPrefix string `env:"PROMPT_DESCRIPTION_PREFIX" envDefault:"해당"`
	DescriptionSuffix string `env:"PROMPT_DESCRIPTION_SUFFIX" envDefault:"에 대한 설명으로 옳은 것은?"`
	During            string `env:"PROMPT_TEMPLATE_DURING" envDefault:"해당 %s이 발생한 시기에 동아시아에서 볼 수 있는 모습으로 가장 적절한 것은?"`
	After             string `env:"PROMPT_TEMPLATE_AFTER" envDefault:"해당 %s이 발생한 이후에 동아시아에서 볼 수 있는 모습으로 가장 적절한 것은?"`
	Before            string `env:"PROMPT_TEMPLATE_BEFORE" envDefault:"해당 %s이 발생한 이전에 동아시아에서 볼 수 있는 모습으로 가장 적절한 것은?"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Engine.ChoiceCount < 2 {
		return nil, fmt.Errorf("QUESTION_CHOICE_COUNT must be at least 2, got %d", cfg.Engine.ChoiceCount)
	}
	return cfg, nil
}

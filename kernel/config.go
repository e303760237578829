package kernel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/appleboy/gin-jwt/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/storage"
)

var (
	once       sync.Once
	appRuntime *AppRuntime
)

type AppRuntime struct {
	Host string

	ServiceName           string
	ServiceVersion        string
	DeploymentEnvironment string
	LogLevel              string

	DatabaseDriver string
	DatabaseDSN    string
	DatabaseClient *gorm.DB

	JaegerEndpoint     string
	MetricsExporter    string
	PrometheusEndpoint string
	Insecure           bool

	CorsOrigins []string

	StorageDriver    string
	StoragePath      string
	StorageBucket    string
	StoragePublicURL string
	Storage          storage.Storage

	RedisAddr string
	Revoked   TokenStore

	DefaultAdminEmail    string
	DefaultAdminPassword string

	Diagnostic *AppDiagnostic

	Context context.Context

	// JWT
	Realm        string
	IdentityKey  string
	SecretKey    []byte
	TokenTimeout time.Duration
	JWT          *jwt.GinJWTMiddleware
}

// LoadConfig reads .env.<API_ENV> once per process. Without the file the
// process environment is used instead.
func LoadConfig() *AppRuntime {
	once.Do(func() {
		appEnv := os.Getenv("API_ENV")
		if appEnv == "" {
			appEnv = "development"
		}

		env, err := godotenv.Read(".env." + appEnv)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Fatal().Err(err).Msgf("could not read .env.%s", appEnv)
			}
			env = environ()
		}

		appRuntime, err = NewRuntime(env)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load configuration")
		}
	})
	return appRuntime
}

func NewRuntime(env map[string]string) (*AppRuntime, error) {
	art := &AppRuntime{
		Host:    valueOr(env, "HOST", ":8080"),
		Context: context.Background(),

		ServiceName:           valueOr(env, "SERVICE_NAME", "pos-api"),
		ServiceVersion:        valueOr(env, "SERVICE_VERSION", "dev"),
		DeploymentEnvironment: valueOr(env, "DEPLOY_ENV", "development"),
		LogLevel:              valueOr(env, "LOG_LEVEL", "info"),

		DatabaseDriver: valueOr(env, "DATABASE_DRIVER", "mysql"),
		DatabaseDSN:    env["DATABASE_DSN"],

		JaegerEndpoint:     env["JAEGER_ENDPOINT"],
		MetricsExporter:    valueOr(env, "METRICS_EXPORTER", "prometheus"),
		PrometheusEndpoint: env["PROMETHEUS_ENDPOINT"],
		Insecure:           env["INSECURE"] == "true",

		CorsOrigins: splitList(env["CORS_ORIGINS"]),

		StorageDriver:    valueOr(env, "STORAGE_DRIVER", "local"),
		StoragePath:      valueOr(env, "STORAGE_PATH", "storage/public"),
		StorageBucket:    env["STORAGE_BUCKET"],
		StoragePublicURL: env["STORAGE_PUBLIC_URL"],

		RedisAddr: env["REDIS_ADDR"],

		DefaultAdminEmail:    valueOr(env, "DEFAULT_ADMIN_EMAIL", "admin@example.com"),
		DefaultAdminPassword: valueOr(env, "DEFAULT_ADMIN_PASSWORD", "P@ssw0rd123"),

		Realm:       valueOr(env, "SEC_JWT_REALM", "pos-api"),
		IdentityKey: valueOr(env, "SEC_JWT_IDENTITY_KEY", "uid"),
		SecretKey:   []byte(env["SEC_JWT_SECRET_KEY"]),
	}

	timeout, err := time.ParseDuration(valueOr(env, "SEC_JWT_TIMEOUT", "336h")) // 2 weeks
	if err != nil {
		return nil, fmt.Errorf("invalid SEC_JWT_TIMEOUT: %w", err)
	}
	art.TokenTimeout = timeout

	art.Diagnostic, err = NewDiagnostic(art.ServiceName)
	if err != nil {
		return nil, err
	}

	return art, nil
}

// Prepare connects everything that needs I/O: database, storage, token store
// and the JWT middleware.
func (art *AppRuntime) Prepare() error {
	if err := art.PrepareDatabase(); err != nil {
		return fmt.Errorf("preparing database: %w", err)
	}

	var err error
	switch art.StorageDriver {
	case "gcs":
		art.Storage, err = storage.NewGCS(art.Context, art.StorageBucket, art.StoragePublicURL)
	default:
		art.Storage, err = storage.NewLocal(art.StoragePath, art.StoragePublicURL)
	}
	if err != nil {
		return fmt.Errorf("preparing storage: %w", err)
	}

	if art.Revoked, err = NewTokenStore(art.Context, art.RedisAddr); err != nil {
		return fmt.Errorf("preparing token store: %w", err)
	}

	if art.JWT, err = NewJWT(art); err != nil {
		return fmt.Errorf("preparing jwt: %w", err)
	}

	return nil
}

func valueOr(env map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(env[key]); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddress       = "HTTP_ADDRESS"
	EnvGRPCAddress       = "GRPC_ADDRESS"
	EnvDatabaseDSN       = "DATABASE_DSN"
	EnvJWTSecret         = "JWT_SECRET"
	EnvSessionValidity   = "SESSION_VALIDITY"
	EnvS3RootUser        = "S3_ROOT_USER"
	EnvS3RootPassword    = "S3_ROOT_PASSWORD"
	EnvS3Bucket          = "S3_BUCKET"
	EnvS3Region          = "S3_REGION"
	EnvS3BaseEndpoint    = "S3_BASE_ENDPOINT"
	EnvPresignExpiry     = "PRESIGN_EXPIRY"
	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvCORSOrigins       = "CORS_ALLOWED_ORIGINS"
	EnvAdminUsername     = "ADMIN_USERNAME"
	EnvAdminEmail        = "ADMIN_EMAIL"
	EnvAdminPassword     = "ADMIN_PASSWORD"
	EnvAdminFirstName    = "ADMIN_FIRST_NAME"
	EnvAdminLastName     = "ADMIN_LAST_NAME"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
)

// parseEnv overlays values from the process environment. A dotenv file is
// loaded first: the one named by -env, or ./.env when present. godotenv
// never overrides variables that are already set.
func parseEnv(config *Config) {
	if envFile := flagx.EnvFile(os.Args[1:]); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString(&config.EndpointAddrHTTP, EnvHTTPAddress)
	envString(&config.EndpointAddrGRPC, EnvGRPCAddress)
	envString(&config.DatabaseDSN, EnvDatabaseDSN)
	envString(&config.SecretKey, EnvJWTSecret)
	envDuration(&config.SessionValidity, EnvSessionValidity)
	envString(&config.S3RootUser, EnvS3RootUser)
	envString(&config.S3RootPassword, EnvS3RootPassword)
	envString(&config.S3Bucket, EnvS3Bucket)
	envString(&config.S3Region, EnvS3Region)
	envString(&config.S3BaseEndpoint, EnvS3BaseEndpoint)
	envDuration(&config.PresignExpiry, EnvPresignExpiry)
	envInt(&config.RateLimitRequests, EnvRateLimitRequests)
	envDuration(&config.RateLimitWindow, EnvRateLimitWindow)
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}
	envString(&config.AdminUsername, EnvAdminUsername)
	envString(&config.AdminEmail, EnvAdminEmail)
	envString(&config.AdminPassword, EnvAdminPassword)
	envString(&config.AdminFirstName, EnvAdminFirstName)
	envString(&config.AdminLastName, EnvAdminLastName)
	envString(&config.LogLevel, EnvLogLevel)
	envString(&config.LogFormat, EnvLogFormat)
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

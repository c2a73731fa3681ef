package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from environment variables. When -env names a
// dotenv file it is loaded first; otherwise ./.env is loaded if present.
// Variables already set in the process environment win over the file.
func parseEnv(config *Config, args []string) {
	if path := flagx.EnvFileFlag(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		// a missing .env is normal outside local development
		_ = godotenv.Load()
	}

	setString(&config.EndpointAddrHTTP, os.Getenv("HTTP_ADDRESS"))
	setString(&config.EndpointAddrGRPC, os.Getenv("GRPC_ADDRESS"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setString(&config.AccessTokenSecret, os.Getenv("ACCESS_TOKEN_SECRET"))
	setString(&config.RefreshTokenSecret, os.Getenv("REFRESH_TOKEN_SECRET"))
	setDuration(&config.AccessTokenValidityDuration, os.Getenv("ACCESS_TOKEN_EXPIRY"))
	setDuration(&config.RefreshTokenValidityDuration, os.Getenv("REFRESH_TOKEN_EXPIRY"))
	setString(&config.S3RootUser, os.Getenv("S3_ROOT_USER"))
	setString(&config.S3RootPassword, os.Getenv("S3_ROOT_PASSWORD"))
	setString(&config.S3Bucket, os.Getenv("S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("S3_BASE_ENDPOINT"))
	setString(&config.S3PublicURL, os.Getenv("S3_PUBLIC_URL"))
	setString(&config.UploadTempDir, os.Getenv("UPLOAD_TEMP_DIR"))
	setString(&config.CORSOrigin, os.Getenv("CORS_ORIGIN"))
	if v, err := strconv.ParseBool(os.Getenv("COOKIE_SECURE")); err == nil {
		config.CookieSecure = v
	}
	setString(&config.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&config.LogFormat, os.Getenv("LOG_FORMAT"))
}

// setDuration ignores empty and unparsable values.
func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}

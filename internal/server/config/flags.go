package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/flagx"
)

var knownFlags = []string{
	"-a", "-grpc", "-d", "-s", "-rs", "-t", "-r",
	"-u", "-p", "-b", "-g", "-e", "-public", "-tmp", "-cors", "-l",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string       REST bind address (e.g. ":8000")
//	-grpc string    gRPC health bind address
//	-d string       PostgreSQL DSN
//	-s string       access token HMAC secret
//	-rs string      refresh token HMAC secret
//	-t int          access token validity, minutes
//	-r int          refresh token validity, minutes
//	-u string       S3 root user
//	-p string       S3 root password
//	-b string       S3 bucket name
//	-g string       S3 region
//	-e string       S3 base endpoint
//	-public string  public base URL of uploaded objects
//	-tmp string     upload staging directory
//	-cors string    allowed CORS origin
//	-l string       log level
//
// Only the flags above are considered; -c/-config and -env are handled by
// the file and environment layers.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the REST server")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "address and port to run the gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "rs", config.RefreshTokenSecret, "refresh token secret")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "public", config.S3PublicURL, "public base URL of uploaded objects")
	fs.StringVar(&config.UploadTempDir, "tmp", config.UploadTempDir, "upload staging directory")
	fs.StringVar(&config.CORSOrigin, "cors", config.CORSOrigin, "allowed CORS origin")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}

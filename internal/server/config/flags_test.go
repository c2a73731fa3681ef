package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:8080", "-grpc", "127.0.0.1:9090", "-d", "db",
				"-s", "secret", "-rs", "refresh", "-t", "1", "-r", "3",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
				"-public", "http://cdn", "-tmp", "/tmp/x", "-cors", "http://app", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:             "127.0.0.1:8080",
				EndpointAddrGRPC:             "127.0.0.1:9090",
				DatabaseDSN:                  "db",
				AccessTokenSecret:            "secret",
				RefreshTokenSecret:           "refresh",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
				S3PublicURL:                  "http://cdn",
				UploadTempDir:                "/tmp/x",
				CORSOrigin:                   "http://app",
				LogLevel:                     "debug",
			},
		},
		{
			name: "unknown flags are filtered",
			args: []string{"-c", "config.json", "-zzz", "1", "-d", "db2"},
			expected: &Config{
				DatabaseDSN: "db2",
			},
		},
		{
			name:        "bad int",
			args:        []string{"-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

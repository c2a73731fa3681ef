package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestParseFile_JSON(t *testing.T) {
	p := writeFile(t, "config.json", `{
		"endpoint_addr_grpc": "127.0.0.1:9090",
		"access_token_secret": "a",
		"refresh_token_secret": "r",
		"refresh_token_validity_duration": "72h",
		"cookie_secure": false,
		"log_format": "text"
	}`)

	c := &Config{}
	c.LoadDefaults()
	parseFile(c, []string{"-c", p})

	assert.Equal(t, "127.0.0.1:9090", c.EndpointAddrGRPC)
	assert.Equal(t, "a", c.AccessTokenSecret)
	assert.Equal(t, "r", c.RefreshTokenSecret)
	assert.Equal(t, 72*time.Hour, c.RefreshTokenValidityDuration)
	assert.False(t, c.CookieSecure)
	assert.Equal(t, "text", c.LogFormat)
	// untouched
	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
}

func TestParseFile_YAML(t *testing.T) {
	p := writeFile(t, "config.yml", "s3_public_url: https://cdn.example.com/media\nupload_temp_dir: /tmp/up\n")

	c := &Config{}
	c.LoadDefaults()
	parseFile(c, []string{"-config=" + p})

	assert.Equal(t, "https://cdn.example.com/media", c.S3PublicURL)
	assert.Equal(t, "/tmp/up", c.UploadTempDir)
	assert.True(t, c.CookieSecure)
}

func TestParseFile_NoFlagIsNoop(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	before := *c
	parseFile(c, []string{"-a", ":1"})
	assert.Equal(t, before, *c)
}

func TestParseFile_InvalidJSONPanics(t *testing.T) {
	p := writeFile(t, "config.json", "{not json")
	assert.Panics(t, func() { parseFile(&Config{}, []string{"-c", p}) })
}

package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		apiBaseURL     string
		mediaBaseURL   string
		requestTimeout int
		sessionPath    string
		downloadDir    string
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				apiBaseURL:     "http://localhost:8080",
				mediaBaseURL:   "http://localhost:8080",
				requestTimeout: 5,
				sessionPath:    "entradas.db",
				downloadDir:    ".",
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"API_BASE_URL":    "http://192.168.1.50:8080",
				"MEDIA_BASE_URL":  "http://192.168.1.50:9000",
				"REQUEST_TIMEOUT": "10",
				"SESSION_PATH":    "/tmp/session.db",
				"DOWNLOAD_DIR":    "/tmp",
			},
			flags: []string{},
			want: want{
				apiBaseURL:     "http://192.168.1.50:8080",
				mediaBaseURL:   "http://192.168.1.50:9000",
				requestTimeout: 10,
				sessionPath:    "/tmp/session.db",
				downloadDir:    "/tmp",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "http://backend:8080",
				"-m", "http://media:9000",
				"-t", "15",
				"-s", "flag.db",
				"-o", "downloads",
			},
			want: want{
				apiBaseURL:     "http://backend:8080",
				mediaBaseURL:   "http://media:9000",
				requestTimeout: 15,
				sessionPath:    "flag.db",
				downloadDir:    "downloads",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"API_BASE_URL":    "http://env:8080",
				"REQUEST_TIMEOUT": "30",
			},
			flags: []string{
				"-a", "http://flag:8080",
				"-t", "15",
			},
			want: want{
				apiBaseURL:     "http://env:8080",
				mediaBaseURL:   "http://env:8080",
				requestTimeout: 30,
				sessionPath:    "entradas.db",
				downloadDir:    ".",
			},
		},
		{
			name: "media defaults to api base",
			env:  map[string]string{},
			flags: []string{
				"-a", "http://backend:8080",
			},
			want: want{
				apiBaseURL:     "http://backend:8080",
				mediaBaseURL:   "http://backend:8080",
				requestTimeout: 5,
				sessionPath:    "entradas.db",
				downloadDir:    ".",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.apiBaseURL, cfg.APIBaseURL)
			assert.Equal(t, tt.want.mediaBaseURL, cfg.MediaBaseURL)
			assert.Equal(t, tt.want.requestTimeout, cfg.RequestTimeout)
			assert.Equal(t, tt.want.sessionPath, cfg.SessionPath)
			assert.Equal(t, tt.want.downloadDir, cfg.DownloadDir)
		})
	}
}

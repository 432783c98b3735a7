package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(LevelEnv, tt.value)
			if got := levelFromEnv(); got != tt.want {
				t.Errorf("levelFromEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitLoggerTagsApp(t *testing.T) {
	t.Setenv(LevelEnv, "info")
	var buf bytes.Buffer
	logger := initLogger(&buf, "slidesort-test")

	logger.Info().Msg("hello")
	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "slidesort-test") {
		t.Errorf("Expected message and app name in output, got %q", out)
	}

	buf.Reset()
	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected debug to be filtered at info level, got %q", buf.String())
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	line := buf.String()
	if !strings.Contains(line, `"status":200`) || !strings.Contains(line, `"level":"info"`) {
		t.Errorf("Unexpected log line %q", line)
	}
	if !strings.Contains(line, `"bytes":2`) {
		t.Errorf("Expected byte count in %q", line)
	}

	buf.Reset()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), `"status":404`) {
		t.Errorf("Expected warn line for 404, got %q", buf.String())
	}
}

package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/omegaclient/internal/testutil/testlog"
)

func TestConfigValidate(t *testing.T) {
	testlog.Start(t)

	if err := (Config{}).Validate(); !errors.Is(err, ErrMissingName) {
		t.Fatalf("validate = %v, want %v", err, ErrMissingName)
	}
	if err := (Config{Name: "omega-test"}).Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestServerRoutes(t *testing.T) {
	testlog.Start(t)

	ready := true
	srv := New(Config{ListenAddr: "127.0.0.1:0", Name: "omega-test"},
		func() any { return map[string]any{"phase": "running"} },
		func() bool { return ready },
		zerolog.Nop(),
	)
	srv.RegisterRoutes()

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Router().ServeHTTP(w, req)
		return w
	}

	if w := get("/health"); w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	w := get("/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if body["phase"] != "running" {
		t.Fatalf("status body = %v", body)
	}

	if w := get("/ready"); w.Code != http.StatusOK {
		t.Fatalf("ready status = %d, want %d", w.Code, http.StatusOK)
	}
	ready = false
	if w := get("/ready"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	if w := get("/metrics"); w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestServerRunDisabled(t *testing.T) {
	testlog.Start(t)

	srv := New(Config{Name: "omega-test"}, nil, nil, zerolog.Nop())
	if err := srv.Run(context.Background()); err != nil {
		t.Fatalf("run with no listen addr: %v", err)
	}
}

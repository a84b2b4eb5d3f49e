package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/Odiway/battrack/internal/config"
)

func TestNewHTTPServerKeepsEventStreamsOpen(t *testing.T) {
	cfg := config.ServerConfig{
		Port:        8080,
		ReadTimeout: 30 * time.Second,
	}

	srv := newHTTPServer(cfg, http.NewServeMux())

	// A write deadline would kill long-lived event streams, so the server
	// must never arm one regardless of configuration.
	if srv.WriteTimeout != 0 {
		t.Errorf("WriteTimeout = %v, want 0", srv.WriteTimeout)
	}
	if srv.ReadTimeout != cfg.ReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", srv.ReadTimeout, cfg.ReadTimeout)
	}
	if srv.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", srv.Addr)
	}
}

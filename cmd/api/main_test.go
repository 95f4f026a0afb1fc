package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nexconsult/courtcase-api/internal/config"
)

func TestNewHTTPServer(t *testing.T) {
	handler := http.NewServeMux()

	srv := newHTTPServer(config.ServerConfig{
		Port:         9090,
		ReadTimeout:  30,
		WriteTimeout: 180,
		IdleTimeout:  60,
	}, handler)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, handler, srv.Handler)
	assert.Equal(t, 30*time.Second, srv.ReadTimeout)
	assert.Equal(t, 180*time.Second, srv.WriteTimeout)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package servecmd

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/luxfi/launchpad/pkg/application"
	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"
)

func TestServeStopsWithContext(t *testing.T) {
	require := require.New(t)
	app = application.New()
	app.Log = luxlog.NewNoOpLogger()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "ok") })
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal("ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

package main

import (
	"context"
	"net"
	"net/http"
	"time"
)

// newHTTPServer builds the server. Request contexts derive from a base
// context that is cancelled when Shutdown starts, so long-lived event
// streams return and their connections can go idle.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	base, cancel := context.WithCancel(context.Background())

	// WriteTimeout は SSE 接続を切ってしまうため設定しない
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	server.RegisterOnShutdown(cancel)
	return server
}

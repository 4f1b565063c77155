package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// metricsServer serves a private registry at /metrics. With an empty
// address it only collects.
type metricsServer struct {
	registry *prometheus.Registry
	srv      *http.Server
	log      *zap.SugaredLogger
}

func newMetricsServer(addr string, log *zap.SugaredLogger) *metricsServer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &metricsServer{registry: reg, log: log}
	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		m.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}
	return m
}

func (m *metricsServer) start() {
	if m.srv == nil {
		return
	}
	m.log.Infow("serving metrics", "addr", m.srv.Addr)
	go func() {
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Warnw("metrics server failed", "addr", m.srv.Addr, "error", err)
		}
	}()
}

func (m *metricsServer) stop() {
	if m.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.srv.Shutdown(ctx); err != nil {
		m.log.Warnw("metrics server shutdown", "error", err)
	}
}

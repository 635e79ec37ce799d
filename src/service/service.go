package service

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/mosaicnetworks/murmur/src/telemetry"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

// Node is what the service reports on.
type Node interface {
	GetStats() map[string]string
	GetPeers() []string
}

// Service exposes a node's stats, peers and metrics over HTTP. It is a side
// channel for diagnostics; it never touches the protocol stream.
type Service struct {
	sync.Mutex

	bindAddress string
	node        Node
	mux         *http.ServeMux
	server      *http.Server
	handle      *codec.JsonHandle
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, n Node, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		node:        n,
		mux:         http.NewServeMux(),
		handle:      &codec.JsonHandle{},
		logger:      logger,
	}

	service.handle.Canonical = true

	service.registerHandlers()

	service.server = &http.Server{
		Addr:    bindAddress,
		Handler: service.mux,
	}

	return &service
}

// registerHandlers registers the API handlers with the service's own
// ServeMux.
func (s *Service) registerHandlers() {
	s.logger.Debug("Registering murmur API handlers")
	s.mux.Handle("/stats", telemetry.Instrument("stats", s.makeHandler(s.GetStats)))
	s.mux.Handle("/peers", telemetry.Instrument("peers", s.makeHandler(s.GetPeers)))
	s.mux.Handle("/metrics", telemetry.Instrument("metrics", telemetry.MetricsHandler()))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the service's handlers, for mounting on another server.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call, which returns after
// Shutdown.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving murmur API")

	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error(err)
	}
}

// Shutdown stops the server gracefully.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	s.encode(w, s.node.GetStats())
}

// GetPeers ...
func (s *Service) GetPeers(w http.ResponseWriter, r *http.Request) {
	peers := s.node.GetPeers()
	if peers == nil {
		peers = []string{}
	}

	s.encode(w, peers)
}

func (s *Service) encode(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := codec.NewEncoder(w, s.handle).Encode(v); err != nil {
		s.logger.WithError(err).Error("Encoding response")
	}
}

// Package net is the line-based TCP transport. It owns sessions and nothing
// else: commands are handed to the game layer pre-parsed as plain text, and
// the engine stays ignorant of connections.
package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/lastcentaur/server/internal/config"
	"github.com/lastcentaur/server/internal/game"
	"go.uber.org/zap"
)

// Server accepts TCP connections speaking the session line protocol.
type Server struct {
	cfg config.NetworkConfig
	mgr *game.Manager
	log *zap.Logger

	ln net.Listener
	wg sync.WaitGroup
}

// NewServer binds the listen address.
func NewServer(cfg config.NetworkConfig, mgr *game.Manager, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.BindAddress)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.BindAddress, err)
	}
	return &Server{cfg: cfg, mgr: mgr, log: log, ln: ln}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve accepts connections until the context ends or Close is called.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			newSession(conn, s.cfg, s.mgr, s.log).run(ctx)
		}()
	}
	s.wg.Wait()
	return nil
}

// Close stops the listener; in-flight sessions drain.
func (s *Server) Close() error {
	return s.ln.Close()
}

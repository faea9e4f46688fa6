package net

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/lastcentaur/server/internal/config"
	"github.com/lastcentaur/server/internal/game"
	"github.com/lastcentaur/server/internal/persist"
	"go.uber.org/zap"
)

// Session protocol, one line per message:
//
//	client: HELLO <player-name>    starts a fresh journey
//	client: RESUME <instance-id>   picks a saved one back up
//	server: WELCOME <instance-id>
//	client: <command text>
//	server: response text, terminated by a blank line
//
// Auth and rate limiting belong to a fronting proxy, not here.

// maxLineBytes caps one protocol line. Longer lines get an ERROR response
// before the connection closes, so the client can tell them from a drop.
const maxLineBytes = 64 * 1024

type session struct {
	conn net.Conn
	cfg  config.NetworkConfig
	mgr  *game.Manager
	log  *zap.Logger

	inst *game.Instance
}

func newSession(conn net.Conn, cfg config.NetworkConfig, mgr *game.Manager, log *zap.Logger) *session {
	return &session{
		conn: conn,
		cfg:  cfg,
		mgr:  mgr,
		log:  log.With(zap.String("remote", conn.RemoteAddr().String())),
	}
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 4096), maxLineBytes)

	if err := s.handshake(ctx, scanner); err != nil {
		s.writeBlock(fmt.Sprintf("ERROR %v", err))
		return
	}

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		if !scanner.Scan() {
			if errors.Is(scanner.Err(), bufio.ErrTooLong) {
				s.writeBlock("ERROR command too long")
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp, err := s.inst.Execute(ctx, line)
		if err != nil {
			s.log.Warn("command failed", zap.Error(err))
			return
		}
		s.writeBlock(resp.Text)
		if resp.Quit {
			return
		}
	}
}

// handshake consumes the HELLO/RESUME line and binds the instance.
func (s *session) handshake(ctx context.Context, scanner *bufio.Scanner) error {
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	if !scanner.Scan() {
		if errors.Is(scanner.Err(), bufio.ErrTooLong) {
			return errors.New("handshake line too long")
		}
		return errors.New("connection closed before handshake")
	}
	verb, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToUpper(verb) {
	case "HELLO":
		if arg == "" {
			return errors.New("HELLO needs a player name")
		}
		inst, err := s.mgr.NewInstance(arg)
		if err != nil {
			return err
		}
		s.inst = inst
	case "RESUME":
		if arg == "" {
			return errors.New("RESUME needs an instance id")
		}
		inst, err := s.mgr.Resume(ctx, arg)
		if errors.Is(err, persist.ErrNotFound) {
			return fmt.Errorf("no saved journey %s", arg)
		}
		if err != nil {
			return err
		}
		s.inst = inst
	default:
		return errors.New("expected HELLO <name> or RESUME <instance-id>")
	}

	s.writeBlock("WELCOME " + s.inst.ID)
	return nil
}

// writeBlock sends the text followed by the blank terminator line.
func (s *session) writeBlock(text string) {
	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	fmt.Fprintf(s.conn, "%s\n\n", text)
}

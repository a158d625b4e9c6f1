// Package server accepts TCP connections and runs one connection task per
// client, bridging the byte stream to the hub's mailboxes and the bet intake.
package server

import (
	"context"
	"net"

	"github.com/sirupsen/logrus"

	"cardtable-server/pkg/table"
)

// Options configures the per-connection behavior
type Options struct {
	// StartingBalance is the money a new player sits down with
	StartingBalance int

	// NameLimit bounds the length of a client-supplied name
	NameLimit int
}

const (
	defaultStartingBalance = 100
	defaultNameLimit       = 40
)

// Server accepts connections and spawns connection tasks
type Server struct {
	hub     *table.Hub
	lobby   *table.Lobby
	intake  *table.Intake
	session *table.Session
	opts    Options
}

// New returns a new server
func New(hub *table.Hub, lobby *table.Lobby, intake *table.Intake, session *table.Session, opts Options) *Server {
	if opts.StartingBalance <= 0 {
		opts.StartingBalance = defaultStartingBalance
	}

	if opts.NameLimit <= 0 {
		opts.NameLimit = defaultNameLimit
	}

	return &Server{
		hub:     hub,
		lobby:   lobby,
		intake:  intake,
		session: session,
		opts:    opts,
	}
}

// Serve accepts connections until the context is canceled or the listener
// fails. Each accepted connection runs independently; a client's failure
// never reaches the session driver or the other connections.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	logrus.WithField("addr", listener.Addr().String()).Info("accepting connections")

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			return err
		}

		go s.handleConn(conn)
	}
}

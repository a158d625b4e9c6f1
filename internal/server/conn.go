package server

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cardtable-server/internal/util"
	"cardtable-server/pkg/table"
)

const welcomeMessage = "Welcome to blackjack! Please enter your name to proceed."

const writeWait = time.Second * 10

// handleConn runs for the lifetime of one client connection.
// It owns the prompt-for-name handshake, the mailbox write pump, and the
// line-to-bet read loop. On EOF or error it tears down everything the
// connection created: the mailbox, the lobby entry, and the seat.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	id := conn.RemoteAddr().String()
	log := logrus.WithField("remoteAddr", id)
	log.Info("client connected")

	if _, err := fmt.Fprintln(conn, welcomeMessage); err != nil {
		log.WithError(err).Debug("could not send welcome")
		return
	}

	scanner := bufio.NewScanner(conn)

	name, ok := s.readName(scanner)
	if !ok {
		log.Debug("client left before submitting a name")
		return
	}

	if err := s.hub.Register(id); err != nil {
		log.WithError(err).Error("could not register mailbox")
		return
	}

	log = log.WithField("name", name)

	s.hub.Unicast(id, fmt.Sprintf("Hi %s! You're in the lobby. The next round starts soon.", name))

	mailbox, _ := s.hub.Mailbox(id)
	go s.writePump(conn, mailbox)

	s.lobby.Add(table.NewPlayer(id, name, s.opts.StartingBalance))

	s.readLoop(scanner, id)

	// transport EOF or error; the player is gone
	s.hub.Deregister(id)
	s.lobby.Remove(id)
	s.session.RemovePlayer(id)
	log.Info("client disconnected")
}

// readName reads the first line as the display name.
// Names are untrusted: they're trimmed, bounded, and an empty name gets a
// generated one.
func (s *Server) readName(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}

	name := strings.TrimSpace(scanner.Text())
	if name == "" {
		name = util.GetRandomName()
	}

	if runes := []rune(name); len(runes) > s.opts.NameLimit {
		name = string(runes[:s.opts.NameLimit])
	}

	return name, true
}

// readLoop forwards numeric lines to the bet intake.
// A malformed line earns a re-prompt; an out-of-turn line is dropped by the
// intake. Neither disconnects the client.
func (s *Server) readLoop(scanner *bufio.Scanner, id string) {
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		amount, err := strconv.Atoi(text)
		if err != nil || amount < 0 {
			s.hub.Unicast(id, "Please enter a valid bet")
			continue
		}

		s.intake.Submit(id, amount)
	}
}

// writePump drains the mailbox to the socket in enqueue order.
// It terminates when the mailbox is deregistered. A write failure closes the
// connection, which unblocks the read loop and triggers cleanup there.
func (s *Server) writePump(conn net.Conn, mailbox <-chan string) {
	for msg := range mailbox {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if _, err := fmt.Fprintln(conn, msg); err != nil {
			logrus.WithError(err).Debug("could not write to client")
			_ = conn.Close()
			return
		}
	}
}

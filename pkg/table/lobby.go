package table

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Lobby holds players who joined but have not been seated yet.
// The session driver drains it in one atomic step when it promotes players.
type Lobby struct {
	mu      sync.Mutex
	waiting []*Player
	notify  chan struct{}
}

// NewLobby returns a new, empty lobby
func NewLobby() *Lobby {
	return &Lobby{
		notify: make(chan struct{}, 1),
	}
}

// Add puts a player into the waiting set and signals the session driver
func (l *Lobby) Add(player *Player) {
	l.mu.Lock()
	l.waiting = append(l.waiting, player)
	n := len(l.waiting)
	l.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"player":  player.String(),
		"waiting": n,
	}).Debug("player joined the lobby")

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Remove takes a player out of the waiting set (e.g., on disconnect).
// Returns true if the player was waiting.
func (l *Lobby) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, player := range l.waiting {
		if player.ID == id {
			l.waiting = append(l.waiting[:i], l.waiting[i+1:]...)
			return true
		}
	}

	return false
}

// Len returns the number of waiting players
func (l *Lobby) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.waiting)
}

// Drain removes and returns every waiting player in join order.
// The swap happens entirely under the lobby lock so a concurrent Add can
// never land in the middle of a promotion.
func (l *Lobby) Drain() []*Player {
	l.mu.Lock()
	defer l.mu.Unlock()

	drained := l.waiting
	l.waiting = nil
	return drained
}

// Ready returns a channel that receives a value when the lobby becomes non-empty
func (l *Lobby) Ready() <-chan struct{} {
	return l.notify
}

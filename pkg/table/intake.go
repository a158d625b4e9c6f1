package table

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Intake collects bet submissions for the in-progress turn.
// Connection tasks are write-once producers; the session driver is the sole
// reader and the only goroutine that clears entries, so turn serialization is
// enforced structurally rather than by convention.
type Intake struct {
	mu      sync.Mutex
	bets    map[string]int
	allowed string
	notify  chan struct{}
}

// NewIntake returns a new intake table
func NewIntake() *Intake {
	return &Intake{
		bets:   make(map[string]int),
		notify: make(chan struct{}, 1),
	}
}

// Allow opens the gate for the given player id. An empty id closes the gate.
// Must only be called by the session driver.
func (i *Intake) Allow(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.allowed = id
}

// Submit records a bet for the player.
// Out-of-turn submissions are dropped silently (logged, never surfaced to the
// submitter) and negative amounts are never recorded.
func (i *Intake) Submit(id string, amount int) bool {
	if amount < 0 {
		return false
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if id != i.allowed {
		logrus.WithFields(logrus.Fields{
			"player": id,
			"amount": amount,
		}).Debug("dropping out-of-turn bet")
		return false
	}

	i.bets[id] = amount

	select {
	case i.notify <- struct{}{}:
	default:
	}

	return true
}

// Take removes and returns the bet for the player, if one was submitted
func (i *Intake) Take(id string) (int, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	amount, found := i.bets[id]
	if found {
		delete(i.bets, id)
	}

	return amount, found
}

// Len returns the number of pending entries
func (i *Intake) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return len(i.bets)
}

// Clear wipes every entry. Called at round reset so stale bets never leak
// into the next round.
func (i *Intake) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.bets = make(map[string]int)
	i.allowed = ""
}

// Ready returns a channel that receives a value when a bet is submitted
func (i *Intake) Ready() <-chan struct{} {
	return i.notify
}

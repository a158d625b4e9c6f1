package table

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrAlreadyRegistered is an error when Register() is called twice for a live id
var ErrAlreadyRegistered = errors.New("mailbox already registered")

const defaultMailboxSize = 256

// Hub owns the per-player outbound mailboxes and fans messages out to them.
// Enqueues never block: a full mailbox drops the message and bumps a counter,
// so game logic is never stalled by a slow client.
type Hub struct {
	mu        sync.RWMutex
	mailboxes map[string]chan string
	size      int
	drops     uint64
}

// NewHub returns a new hub. mailboxSize <= 0 uses the default size.
func NewHub(mailboxSize int) *Hub {
	if mailboxSize <= 0 {
		mailboxSize = defaultMailboxSize
	}

	return &Hub{
		mailboxes: make(map[string]chan string),
		size:      mailboxSize,
	}
}

// Register creates a mailbox for the id
// ErrAlreadyRegistered is returned if a mailbox for the id is still live
func (h *Hub) Register(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, found := h.mailboxes[id]; found {
		return ErrAlreadyRegistered
	}

	h.mailboxes[id] = make(chan string, h.size)
	return nil
}

// Deregister removes and closes the mailbox for the id
// Subsequent sends to the id are no-ops
func (h *Hub) Deregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	mailbox, found := h.mailboxes[id]
	if !found {
		return
	}

	delete(h.mailboxes, id)
	close(mailbox)
}

// Mailbox returns the receive side of the mailbox for the id
func (h *Hub) Mailbox(id string) (<-chan string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	mailbox, found := h.mailboxes[id]
	return mailbox, found
}

// Unicast enqueues a message for a single recipient.
// Returns false if the recipient is unknown or the message was dropped.
func (h *Hub) Unicast(id, text string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	mailbox, found := h.mailboxes[id]
	if !found {
		return false
	}

	return h.enqueue(id, mailbox, text)
}

// Broadcast enqueues a message for every registered recipient except the
// excluded id. A dropped message for one recipient never affects the others.
func (h *Hub) Broadcast(text, excluding string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, mailbox := range h.mailboxes {
		if id == excluding {
			continue
		}

		h.enqueue(id, mailbox, text)
	}
}

// enqueue must only be called while the lock is held
func (h *Hub) enqueue(id string, mailbox chan string, text string) bool {
	select {
	case mailbox <- text:
		return true
	default:
		h.drops++
		logrus.WithFields(logrus.Fields{
			"recipient": id,
			"drops":     h.drops,
		}).Warn("mailbox full, dropping message")
		return false
	}
}

// Drops returns the number of messages dropped due to full mailboxes
func (h *Hub) Drops() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.drops
}

// Size returns the number of registered mailboxes
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.mailboxes)
}

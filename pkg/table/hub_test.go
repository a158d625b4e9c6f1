package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_Register(t *testing.T) {
	a := assert.New(t)

	hub := NewHub(4)
	a.NoError(hub.Register("a"))
	a.Equal(ErrAlreadyRegistered, hub.Register("a"))
	a.Equal(1, hub.Size())

	hub.Deregister("a")
	a.Equal(0, hub.Size())
	a.NoError(hub.Register("a"))

	// deregistering an unknown id is a no-op
	hub.Deregister("b")
	a.Equal(1, hub.Size())
}

func TestHub_Unicast(t *testing.T) {
	a := assert.New(t)

	hub := NewHub(4)
	a.NoError(hub.Register("a"))

	a.True(hub.Unicast("a", "first"))
	a.True(hub.Unicast("a", "second"))
	a.False(hub.Unicast("unknown", "nope"))

	mailbox, found := hub.Mailbox("a")
	a.True(found)

	// FIFO relative to enqueue order
	a.Equal("first", <-mailbox)
	a.Equal("second", <-mailbox)
}

func TestHub_Broadcast(t *testing.T) {
	a := assert.New(t)

	hub := NewHub(4)
	a.NoError(hub.Register("a"))
	a.NoError(hub.Register("b"))
	a.NoError(hub.Register("c"))

	hub.Broadcast("hello", "b")

	aBox, _ := hub.Mailbox("a")
	bBox, _ := hub.Mailbox("b")
	cBox, _ := hub.Mailbox("c")

	a.Equal("hello", <-aBox)
	a.Equal("hello", <-cBox)
	a.Equal(0, len(bBox))
}

func TestHub_DropOnFull(t *testing.T) {
	a := assert.New(t)

	hub := NewHub(2)
	a.NoError(hub.Register("slow"))
	a.NoError(hub.Register("fast"))

	// fill the slow mailbox
	a.True(hub.Unicast("slow", "one"))
	a.True(hub.Unicast("slow", "two"))
	a.False(hub.Unicast("slow", "three"))
	a.Equal(uint64(1), hub.Drops())

	// a full mailbox never blocks delivery to the others
	hub.Broadcast("update", "")
	a.Equal(uint64(2), hub.Drops())

	fastBox, _ := hub.Mailbox("fast")
	a.Equal("update", <-fastBox)
}

func TestHub_DeregisterClosesMailbox(t *testing.T) {
	hub := NewHub(4)
	assert.NoError(t, hub.Register("a"))

	mailbox, _ := hub.Mailbox("a")
	hub.Deregister("a")

	_, open := <-mailbox
	assert.False(t, open)

	// sends after deregistration are no-ops
	assert.False(t, hub.Unicast("a", "late"))
	hub.Broadcast("late", "")
}

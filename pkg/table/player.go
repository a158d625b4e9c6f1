package table

import (
	"fmt"

	"cardtable-server/pkg/deck"
)

// Player is a participant at the table.
// A player lives in the lobby from the time they submit a name until the
// session seats them, and in the session's seated set after that. Never both.
type Player struct {
	// ID is stable for the lifetime of the connection (the transport peer address)
	ID string `json:"id"`

	// Name is supplied by the client and is untrusted
	Name string `json:"name"`

	// Balance is the player's money and must never go negative
	Balance int `json:"balance"`

	// CurrentBet is the bet placed this round
	CurrentBet int `json:"currentBet"`

	Hand deck.Hand `json:"hand"`
}

// NewPlayer returns a new player with the starting balance
func NewPlayer(id, name string, balance int) *Player {
	return &Player{
		ID:      id,
		Name:    name,
		Balance: balance,
		Hand:    deck.Hand{},
	}
}

// String returns a traceable identifier for the player
func (p *Player) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.ID)
}

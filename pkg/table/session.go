package table

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cardtable-server/internal/rng"
	"cardtable-server/pkg/deck"
)

// Phase identifies where the session driver is in its round loop
type Phase int

// session phases
const (
	PhaseWaiting Phase = iota
	PhasePromoting
	PhaseDealerDraw
	PhaseTurn
	PhaseRoundReset
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePromoting:
		return "promoting"
	case PhaseDealerDraw:
		return "dealerDraw"
	case PhaseTurn:
		return "turn"
	case PhaseRoundReset:
		return "roundReset"
	}

	return "unknown"
}

// Options configures the session
type Options struct {
	// MinPlayers is how many waiting players it takes to start an empty table.
	// Once the table is seated, newcomers are promoted regardless of this value.
	MinPlayers int

	// LowWaterMark is the deck count below which the deck is replaced
	LowWaterMark int

	// PollInterval is the fallback wait between checks for lobby and bet activity
	PollInterval time.Duration
}

const (
	defaultMinPlayers   = 1
	defaultLowWaterMark = 10
	defaultPollInterval = 50 * time.Millisecond
)

// Session is the authoritative game aggregate: the seated players (in turn
// order), the shared deck, the dealer's hand, and the current turn holder.
// All of it is guarded by a single lock, which is never held across a wait.
// Only the Run loop advances the turn holder or consumes intake entries.
type Session struct {
	hub    *Hub
	lobby  *Lobby
	intake *Intake
	opts   Options

	mu         sync.Mutex
	players    []*Player
	deck       *deck.Deck
	dealer     deck.Hand
	phase      Phase
	turnHolder string
}

// NewSession returns a new session for the table
func NewSession(hub *Hub, lobby *Lobby, intake *Intake, opts Options) *Session {
	if opts.MinPlayers <= 0 {
		opts.MinPlayers = defaultMinPlayers
	}

	if opts.LowWaterMark <= 0 {
		opts.LowWaterMark = defaultLowWaterMark
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	d := deck.New()
	d.Shuffle(rng.Seed())

	return &Session{
		hub:    hub,
		lobby:  lobby,
		intake: intake,
		opts:   opts,
		deck:   d,
		dealer: deck.Hand{},
	}
}

// Run drives the session until the context is canceled.
// This is the only goroutine that promotes players, advances turns, consumes
// bets, and resets the round.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	logrus.Info("session driver started")

	for {
		if !s.waitForPlayers(ctx, ticker) {
			logrus.Info("session driver stopped")
			return
		}

		log := logrus.WithField("round", uuid.New().String())

		s.promote(log)

		if s.SeatedCount() == 0 {
			// everyone disconnected before the round could start
			continue
		}

		s.dealerDraw(log)

		for _, id := range s.seatedIDs() {
			if !s.takeTurn(ctx, ticker, log, id) {
				logrus.Info("session driver stopped")
				return
			}
		}

		s.roundReset(log)
	}
}

// waitForPlayers blocks until the table has something to do: players already
// seated, or enough waiting in the lobby to start. The wait always yields.
func (s *Session) waitForPlayers(ctx context.Context, ticker *time.Ticker) bool {
	s.setPhase(PhaseWaiting)

	for {
		if s.SeatedCount() > 0 || s.lobby.Len() >= s.opts.MinPlayers {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-s.lobby.Ready():
		case <-ticker.C:
		}
	}
}

// promote drains the lobby and seats everyone in it, in join order.
// The lobby lock is released before the session lock is taken (the drain
// buffers into a local slice), so the two locks are never nested.
func (s *Session) promote(log *logrus.Entry) {
	joined := s.lobby.Drain()
	if len(joined) == 0 {
		return
	}

	s.setPhase(PhasePromoting)

	s.mu.Lock()
	s.players = append(s.players, joined...)
	s.mu.Unlock()

	for _, player := range joined {
		log.WithField("player", player.String()).Info("player seated")
		s.hub.Unicast(player.ID, fmt.Sprintf("You have joined the game, %s!", player.Name))
		s.hub.Broadcast(fmt.Sprintf("%s joined the game", player.Name), player.ID)
	}
}

func (s *Session) dealerDraw(log *logrus.Entry) {
	s.setPhase(PhaseDealerDraw)

	s.mu.Lock()
	card, err := s.drawLocked()
	if err != nil {
		s.mu.Unlock()
		log.WithError(err).Error("could not draw a card for the dealer")
		return
	}

	s.dealer.AddCard(card)
	shows := s.dealer.String()
	s.mu.Unlock()

	s.hub.Broadcast(fmt.Sprintf("Dealer shows %s", shows), "")
}

// drawLocked draws the next card, first replacing the deck with a freshly
// shuffled one when the count is below the low-water mark.
// The session lock must be held: replacement and draw form one exclusive
// section, so an in-flight draw never sees a shorter-than-expected deck.
func (s *Session) drawLocked() (*deck.Card, error) {
	if s.deck.CardsLeft() < s.opts.LowWaterMark {
		d := deck.New()
		d.Shuffle(rng.Seed())
		s.deck = d
		logrus.WithField("lowWaterMark", s.opts.LowWaterMark).Debug("replaced the deck")
	}

	return s.deck.Draw()
}

// takeTurn runs a single player's turn: announce, open the intake gate, and
// wait for a valid bet. The wait yields on the intake signal or the poll tick,
// and gives up if the player is no longer seated.
// Returns false only when the context is canceled.
func (s *Session) takeTurn(ctx context.Context, ticker *time.Ticker, log *logrus.Entry, id string) bool {
	s.mu.Lock()
	player := s.playerLocked(id)
	if player == nil {
		// left before their turn came up
		s.mu.Unlock()
		return true
	}

	s.phase = PhaseTurn
	s.turnHolder = id
	name := player.Name
	s.mu.Unlock()

	s.intake.Allow(id)
	defer func() {
		s.intake.Allow("")

		s.mu.Lock()
		s.turnHolder = ""
		s.mu.Unlock()
	}()

	s.hub.Broadcast(fmt.Sprintf("%s is betting", name), id)
	s.hub.Unicast(id, fmt.Sprintf("Ok, %s, it's your turn. Place a bet", name))

	for {
		if amount, found := s.intake.Take(id); found {
			if s.applyBet(log, id, amount) {
				return true
			}

			// bet rejected, keep waiting for a valid one
		}

		if !s.isSeated(id) {
			log.WithField("player", id).Info("turn abandoned, player left the table")
			return true
		}

		if _, found := s.hub.Mailbox(id); !found {
			// seated but the mailbox is gone, so the connection is dead
			log.WithField("player", id).Info("turn abandoned, mailbox deregistered")
			s.RemovePlayer(id)
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-s.intake.Ready():
		case <-ticker.C:
		}
	}
}

// applyBet deducts the bet, deals the player one card, and tells the table.
// Returns false if the bet was rejected and the turn should keep waiting.
func (s *Session) applyBet(log *logrus.Entry, id string, amount int) bool {
	s.mu.Lock()
	player := s.playerLocked(id)
	if player == nil {
		// nothing left to apply the bet to
		s.mu.Unlock()
		return true
	}

	if amount > player.Balance {
		balance := player.Balance
		s.mu.Unlock()
		s.hub.Unicast(id, fmt.Sprintf("You can't bet $%d, you only have $%d. Place a bet", amount, balance))
		return false
	}

	card, err := s.drawLocked()
	if err != nil {
		s.mu.Unlock()
		log.WithError(err).Error("could not draw a card for the bet")
		return true
	}

	player.Balance -= amount
	player.CurrentBet = amount
	player.Hand.AddCard(card)
	name, balance := player.Name, player.Balance
	s.mu.Unlock()

	log.WithFields(logrus.Fields{
		"player": name,
		"amount": amount,
	}).Info("bet accepted")

	s.hub.Unicast(id, fmt.Sprintf("You bet $%d and drew %s. Your balance is $%d", amount, card, balance))
	s.hub.Broadcast(fmt.Sprintf("%s has bet $%d", name, amount), id)

	return true
}

// roundReset clears the intake table, every hand, and the dealer's hand.
// Balances and seats persist, except that players who are out of money leave
// the table.
func (s *Session) roundReset(log *logrus.Entry) {
	s.setPhase(PhaseRoundReset)
	s.intake.Clear()

	s.mu.Lock()
	var busted []*Player
	remaining := make([]*Player, 0, len(s.players))
	for _, player := range s.players {
		player.Hand.Clear()
		player.CurrentBet = 0

		if player.Balance == 0 {
			busted = append(busted, player)
		} else {
			remaining = append(remaining, player)
		}
	}

	s.players = remaining
	s.dealer.Clear()
	s.mu.Unlock()

	for _, player := range busted {
		log.WithField("player", player.String()).Info("player is out of money")
		s.hub.Unicast(player.ID, "You're out of money and have left the table")
		s.hub.Broadcast(fmt.Sprintf("%s is out of money", player.Name), player.ID)
	}
}

// RemovePlayer unseats a player (e.g., on disconnect).
// If it was their turn, the driver notices within one poll interval and moves
// on to the next seat.
func (s *Session) RemovePlayer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, player := range s.players {
		if player.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return true
		}
	}

	return false
}

// playerLocked must only be called while the lock is held
func (s *Session) playerLocked(id string) *Player {
	for _, player := range s.players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

func (s *Session) isSeated(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.playerLocked(id) != nil
}

// SeatedCount returns the number of seated players
func (s *Session) SeatedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.players)
}

func (s *Session) seatedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.players))
	for i, player := range s.players {
		ids[i] = player.ID
	}

	return ids
}

// TurnHolder returns the id of the player currently permitted to bet,
// or an empty string if no turn is in progress
func (s *Session) TurnHolder() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.turnHolder
}

// CurrentPhase returns the phase the driver is in
func (s *Session) CurrentPhase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

func (s *Session) setPhase(phase Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = phase
}

// PlayerStatus is a point-in-time view of a seated player
type PlayerStatus struct {
	Name       string `json:"name"`
	Balance    int    `json:"balance"`
	CurrentBet int    `json:"currentBet"`
	Hand       string `json:"hand"`
}

// Status is a point-in-time snapshot of the table
type Status struct {
	Phase      string         `json:"phase"`
	TurnHolder string         `json:"turnHolder,omitempty"`
	CardsLeft  int            `json:"cardsLeft"`
	DealerHand string         `json:"dealerHand"`
	Players    []PlayerStatus `json:"players"`
}

// Status returns a snapshot of the table suitable for the status API
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	var turnHolder string
	if player := s.playerLocked(s.turnHolder); player != nil {
		turnHolder = player.Name
	}

	players := make([]PlayerStatus, len(s.players))
	for i, player := range s.players {
		players[i] = PlayerStatus{
			Name:       player.Name,
			Balance:    player.Balance,
			CurrentBet: player.CurrentBet,
			Hand:       player.Hand.String(),
		}
	}

	return Status{
		Phase:      s.phase.String(),
		TurnHolder: turnHolder,
		CardsLeft:  s.deck.CardsLeft(),
		DealerHand: s.dealer.String(),
		Players:    players,
	}
}

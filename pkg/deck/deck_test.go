package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	deck := New()

	assert.Equal(t, 52, deck.CardsLeft())

	assert.Equal(t, Card{Rank: 2, Suit: Clubs}, *deck.Cards[0])

	assert.Equal(t, Card{Rank: 14, Suit: Spades}, *deck.Cards[51])
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d1 := New()
	unshuffled := d1.HashCode()
	d1.Shuffle(1)
	a.NotEqual(unshuffled, d1.HashCode())
	a.Equal(52, d1.CardsLeft())

	// same seed, same order
	d2 := New()
	d2.Shuffle(1)
	a.Equal(d1.HashCode(), d2.HashCode())
	a.Equal(int64(1), d2.GetSeed())

	// different seed, different order
	d3 := New()
	d3.Shuffle(2)
	a.NotEqual(d1.HashCode(), d3.HashCode())

	// no duplicates after a shuffle
	seen := make(map[Card]bool)
	for _, card := range d1.Cards {
		seen[*card] = true
	}
	a.Equal(52, len(seen))
}

// a shuffled deck should put any given card in any position with roughly
// equal probability
func TestDeck_ShuffleFairness(t *testing.T) {
	const shuffles = 2000
	target := Card{Rank: Ace, Suit: Spades}

	sum := 0
	for i := 0; i < shuffles; i++ {
		d := New()
		d.Shuffle(int64(i + 1))
		for pos, card := range d.Cards {
			if card.Equal(&target) {
				sum += pos
				break
			}
		}
	}

	// expected mean position is 25.5; allow a generous band
	mean := float64(sum) / shuffles
	assert.Greater(t, mean, 22.0)
	assert.Less(t, mean, 29.0)
}

func TestDeck_Draw(t *testing.T) {
	deck := New()

	if !deck.CanDraw(52) {
		t.Errorf("expected CanDraw(52) to be true")
	}

	if deck.CanDraw(53) {
		t.Errorf("expected CanDraw(53) to be false")
	}

	for i := 0; i < 52; i++ {
		card, err := deck.Draw()
		if card == nil {
			t.Error("expected card, got nil")
		}

		if err != nil {
			t.Errorf("expected err to be nil, got %v", err)
		}
	}

	if deck.CanDraw(1) {
		t.Errorf("expected CanDraw(1) to be false")
	}

	card, err := deck.Draw()
	if card != nil {
		t.Errorf("expected card to be nil, got %#v", card)
	}

	if err != ErrEndOfDeck {
		t.Errorf("expected err to be ErrEndOfDeck, got %#v", err)
	}

	deck.Shuffle(0)
	if !deck.CanDraw(52) {
		t.Errorf("expected Shuffle() to rebuild the deck")
	}
}

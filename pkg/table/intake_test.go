package table

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntake_Submit(t *testing.T) {
	a := assert.New(t)

	intake := NewIntake()

	// the gate starts closed
	a.False(intake.Submit("a", 10))

	intake.Allow("a")
	a.False(intake.Submit("b", 10))
	a.False(intake.Submit("a", -1))
	a.True(intake.Submit("a", 10))

	select {
	case <-intake.Ready():
	default:
		t.Error("expected the intake to signal")
	}

	amount, found := intake.Take("a")
	a.True(found)
	a.Equal(10, amount)

	_, found = intake.Take("a")
	a.False(found)
}

func TestIntake_Clear(t *testing.T) {
	a := assert.New(t)

	intake := NewIntake()
	intake.Allow("a")
	a.True(intake.Submit("a", 5))
	a.Equal(1, intake.Len())

	intake.Clear()
	a.Equal(0, intake.Len())

	// clear also closes the gate
	a.False(intake.Submit("a", 5))
}

// only the turn holder's submission is ever recorded, no matter how many
// players submit concurrently
func TestIntake_TurnExclusivity(t *testing.T) {
	intake := NewIntake()
	intake.Allow("player-0")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			intake.Submit(fmt.Sprintf("player-%d", n), n+1)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, intake.Len())

	amount, found := intake.Take("player-0")
	assert.True(t, found)
	assert.Equal(t, 1, amount)
}

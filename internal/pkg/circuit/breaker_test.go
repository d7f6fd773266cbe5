package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("test", threshold, cooldown)
	b.now = clock.Now
	return b, clock
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b, clock := newTestBreaker(1, 30*time.Second)
	var changes []string
	b.OnStateChange(func(_ string, from, to State) { changes = append(changes, from.String()+">"+to.String()) })

	b.RecordFailure()
	clock.Advance(10 * time.Second)
	assert.False(t, b.Allow())

	clock.Advance(20 * time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())

	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())

	clock.Advance(30 * time.Second)
	assert.True(t, b.Allow())
	b.RecordSuccess()
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []string{
		"CLOSED>OPEN", "OPEN>HALF-OPEN", "HALF-OPEN>OPEN", "OPEN>HALF-OPEN", "HALF-OPEN>CLOSED",
	}, changes)
}

func TestBreakerHalfOpenAdmitsOneTrial(t *testing.T) {
	b, clock := newTestBreaker(1, 30*time.Second)

	b.RecordFailure()
	clock.Advance(30 * time.Second)
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())
	assert.False(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())

	// the first trial never reported; a new one is admitted after cooldown
	clock.Advance(30 * time.Second)
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())

	b.RecordSuccess()
	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
}

func TestNewClampsThreshold(t *testing.T) {
	b, _ := newTestBreaker(0, time.Second)
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())
}

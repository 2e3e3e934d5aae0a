package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResendCountdownFullRun(t *testing.T) {
	var labels []int
	sleeps := 0

	tickResendCountdown(60*time.Second,
		func(time.Duration) { sleeps++ },
		func(remaining int) error {
			labels = append(labels, remaining)
			return nil
		})

	assert.Equal(t, []int{50, 40, 30, 20, 10, 0}, labels)
	assert.Equal(t, 6, sleeps)
}

func TestResendCountdownActivatesAfterEditFailure(t *testing.T) {
	var labels []int

	tickResendCountdown(60*time.Second,
		func(time.Duration) {},
		func(remaining int) error {
			labels = append(labels, remaining)
			if remaining == 40 {
				return errors.New("message to edit not found")
			}
			return nil
		})

	// Ticking stops at the failure, but the button must still be
	// activated, never left stuck on the wait label.
	assert.Equal(t, []int{50, 40, 0}, labels)
}

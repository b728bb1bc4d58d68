package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayDoubles(t *testing.T) {
	assert.Equal(t, time.Minute, backoffDelay(1))
	assert.Equal(t, 2*time.Minute, backoffDelay(2))
	assert.Equal(t, 4*time.Minute, backoffDelay(3))
	assert.Equal(t, 8*time.Minute, backoffDelay(4))
}

func TestBackoffDelayCapped(t *testing.T) {
	assert.Equal(t, time.Hour, backoffDelay(10))
	assert.Equal(t, time.Hour, backoffDelay(100))
}

func TestBackoffDelayHandlesBadInput(t *testing.T) {
	assert.Equal(t, time.Minute, backoffDelay(0))
	assert.Equal(t, time.Minute, backoffDelay(-3))
}

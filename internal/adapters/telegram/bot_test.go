package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sulaymanovI/diamond-water-bot/internal/app"
)

func TestIsAffirmative(t *testing.T) {
	for _, yes := range []string{"ha", "Ha", "XA", "yes", "da", "+", "ok", "  ha  "} {
		assert.True(t, isAffirmative(yes), "%q should confirm", yes)
	}
	for _, no := range []string{"yo'q", "no", "", "bekor", "h"} {
		assert.False(t, isAffirmative(no), "%q should not confirm", no)
	}
}

func TestGateBlocksUnknownUsers(t *testing.T) {
	gate := app.NewGate([]int64{111, 222})
	assert.True(t, gate.Allowed(111))
	assert.True(t, gate.Allowed(222))
	assert.False(t, gate.Allowed(333))

	empty := app.NewGate(nil)
	assert.False(t, empty.Allowed(111))
}

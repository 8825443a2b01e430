package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionRegistry(t *testing.T) {
	r := NewActionRegistry()
	r.Register(ActionDefinition{
		Name:        "list_orders",
		Description: "Show all orders",
		IsRead:      true,
		Handler: func(context.Context, ActionArgs) (string, error) {
			return "ok", nil
		},
	})
	r.Register(ActionDefinition{
		Name:        "create_order",
		Description: "Create an order",
	})

	read, ok := r.Get("list_orders")
	require.True(t, ok)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.Handler)

	write, ok := r.Get("create_order")
	require.True(t, ok)
	assert.False(t, write.IsRead)
	assert.Nil(t, write.Handler)

	_, ok = r.Get("unknown")
	assert.False(t, ok)

	assert.Len(t, r.All(), 2)
}

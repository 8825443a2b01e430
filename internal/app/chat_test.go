package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulaymanovI/diamond-water-bot/internal/ai"
	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

func TestOrderUpdateFromArgs(t *testing.T) {
	upd := orderUpdateFromArgs(ai.ActionArgs{
		SumOfItem:   800_000,
		OrderStatus: "Qaytarilgan",
	})
	require.NotNil(t, upd.SumOfItem)
	assert.Equal(t, int64(800_000), *upd.SumOfItem)
	require.NotNil(t, upd.Status)
	assert.Equal(t, core.StatusReturned, *upd.Status)
	assert.Nil(t, upd.ItemCount)
	assert.Nil(t, upd.Prepaid)
	assert.Nil(t, upd.EveryMonthShouldPay)
}

func TestOrderUpdateFromArgs_Empty(t *testing.T) {
	assert.True(t, orderUpdateFromArgs(ai.ActionArgs{}).Empty())
}

func TestSellerUpdateFromArgs(t *testing.T) {
	upd := sellerUpdateFromArgs(ai.ActionArgs{
		SellerPassport: "AD1112223",
		Salary:         4_500_000,
		StartDate:      "2025-06-01",
	})
	require.NotNil(t, upd.Salary)
	assert.Equal(t, int64(4_500_000), *upd.Salary)
	require.NotNil(t, upd.StartedJobAt)
	assert.Equal(t, "2025-06-01", *upd.StartedJobAt)
	assert.Nil(t, upd.FullName)
	assert.Nil(t, upd.Phone)
	// The passport identifies the seller; it is never written through chat.
	assert.Nil(t, upd.PassportSerial)
}

func TestConsumptionUpdateFromArgs(t *testing.T) {
	upd, err := consumptionUpdateFromArgs(ai.ActionArgs{
		ConsumptionID: 7,
		Amount:        "75000.25",
		Description:   "ofis uchun suv",
	})
	require.NoError(t, err)
	require.NotNil(t, upd.Amount)
	assert.Equal(t, "75000.25", upd.Amount.StringFixed(2))
	require.NotNil(t, upd.Description)
	assert.Nil(t, upd.Owner)

	_, err = consumptionUpdateFromArgs(ai.ActionArgs{Amount: "ko'p"})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestBuildRegistry_ActionSurface(t *testing.T) {
	s := &appService{}
	r := s.buildRegistry()

	reads := []string{
		"list_orders", "get_order", "order_stats", "list_clients", "find_client",
		"list_sellers", "find_seller", "list_consumptions", "consumption_totals",
	}
	writes := []string{
		"register_client", "register_seller", "update_seller",
		"create_order", "add_payment", "update_order", "delete_order",
		"add_consumption", "update_consumption", "delete_consumption",
	}

	for _, name := range reads {
		def, ok := r.Get(name)
		require.True(t, ok, "missing read action %s", name)
		assert.True(t, def.IsRead, "%s must be a read action", name)
		assert.NotNil(t, def.Handler, "%s must have a handler", name)
	}
	for _, name := range writes {
		def, ok := r.Get(name)
		require.True(t, ok, "missing write action %s", name)
		assert.False(t, def.IsRead, "%s must require confirmation", name)
		assert.Nil(t, def.Handler, "%s must not run autonomously", name)
	}
	assert.Len(t, r.All(), len(reads)+len(writes))
}

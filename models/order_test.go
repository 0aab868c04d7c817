package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusCooking,
		OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), "status %q should be valid", s)
	}

	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("PENDING").Valid())
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusDelivered.Terminal())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"confirmed to cooking", OrderStatusConfirmed, OrderStatusCooking, true},
		{"cooking to ready", OrderStatusCooking, OrderStatusReady, true},
		{"ready to out_for_delivery", OrderStatusReady, OrderStatusOutForDelivery, true},
		{"out_for_delivery to delivered", OrderStatusOutForDelivery, OrderStatusDelivered, true},
		{"delivered to completed", OrderStatusDelivered, OrderStatusCompleted, true},
		{"skipping ahead is fine", OrderStatusPending, OrderStatusReady, true},
		{"re-applying current status", OrderStatusCooking, OrderStatusCooking, true},

		{"no going back to pending", OrderStatusConfirmed, OrderStatusPending, false},
		{"no going back to cooking", OrderStatusReady, OrderStatusCooking, false},
		{"delivered cannot regress", OrderStatusDelivered, OrderStatusConfirmed, false},

		{"cancel from pending", OrderStatusPending, OrderStatusCancelled, true},
		{"cancel from cooking", OrderStatusCooking, OrderStatusCancelled, true},
		{"cancel from delivered", OrderStatusDelivered, OrderStatusCancelled, true},

		{"completed is frozen", OrderStatusCompleted, OrderStatusCancelled, false},
		{"completed cannot repeat", OrderStatusCompleted, OrderStatusCompleted, false},
		{"cancelled is frozen", OrderStatusCancelled, OrderStatusConfirmed, false},
		{"cancelled cannot repeat", OrderStatusCancelled, OrderStatusCancelled, false},

		{"unknown target rejected", OrderStatusPending, OrderStatus("shipped"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTimestampColumn(t *testing.T) {
	col, ok := TimestampColumn(OrderStatusConfirmed)
	assert.True(t, ok)
	assert.Equal(t, "confirmed_at", col)

	col, ok = TimestampColumn(OrderStatusCooking)
	assert.True(t, ok)
	assert.Equal(t, "cooking_at", col)

	_, ok = TimestampColumn(OrderStatusPending)
	assert.False(t, ok)

	_, ok = TimestampColumn(OrderStatusOutForDelivery)
	assert.False(t, ok)
}

func TestValidDeliveryType(t *testing.T) {
	assert.True(t, ValidDeliveryType(DeliveryTypePickup))
	assert.True(t, ValidDeliveryType(DeliveryTypeFreeDelivery))
	assert.True(t, ValidDeliveryType(DeliveryTypeEasyDelivery))
	assert.False(t, ValidDeliveryType(DeliveryType("drone")))
	assert.False(t, ValidDeliveryType(DeliveryType("")))
}

func TestBuildTimeline(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	confirmed := created.Add(5 * time.Minute)
	cooking := created.Add(10 * time.Minute)

	order := &Order{
		CreatedAt:   created,
		ConfirmedAt: &confirmed,
		CookingAt:   &cooking,
		Status:      OrderStatusCooking,
	}

	timeline := BuildTimeline(order)
	assert.Len(t, timeline, 5)

	assert.Equal(t, "pending", timeline[0].Step)
	assert.Equal(t, "รอยืนยัน", timeline[0].Label)
	assert.True(t, timeline[0].Completed)
	assert.Equal(t, created, *timeline[0].Time)

	assert.Equal(t, "confirmed", timeline[1].Step)
	assert.True(t, timeline[1].Completed)
	assert.Equal(t, confirmed, *timeline[1].Time)

	assert.Equal(t, "cooking", timeline[2].Step)
	assert.True(t, timeline[2].Completed)

	assert.Equal(t, "ready", timeline[3].Step)
	assert.False(t, timeline[3].Completed)
	assert.Nil(t, timeline[3].Time)

	assert.Equal(t, "delivered", timeline[4].Step)
	assert.False(t, timeline[4].Completed)
}

func TestBuildTimelineFreshOrder(t *testing.T) {
	order := &Order{CreatedAt: time.Now(), Status: OrderStatusPending}
	timeline := BuildTimeline(order)

	assert.True(t, timeline[0].Completed)
	for _, step := range timeline[1:] {
		assert.False(t, step.Completed, "step %q should not be completed", step.Step)
	}
}

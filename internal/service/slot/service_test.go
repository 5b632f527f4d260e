package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsDefaultDay(t *testing.T) {
	svc := NewService(DefaultConfig())

	slots, err := svc.Slots("GMT")
	require.NoError(t, err)

	// 09:00 to 18:30 inclusive on a half-hour grid.
	assert.Len(t, slots, 20)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "18:30", slots[len(slots)-1])
}

func TestSlotsOrdered(t *testing.T) {
	svc := NewService(DefaultConfig())

	slots, err := svc.Slots("Europe/Paris")
	require.NoError(t, err)
	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1], slots[i])
	}
}

func TestSlotsCustomStep(t *testing.T) {
	svc := NewService(Config{
		OpenHour:    8,
		CloseHour:   9,
		StepMinutes: 15,
	})

	slots, err := svc.Slots("GMT")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "08:15", "08:30", "08:45", "09:00"}, slots)
}

func TestSlotsRejectsUnknownTimezone(t *testing.T) {
	svc := NewService(DefaultConfig())

	_, err := svc.Slots("Not/AZone")
	assert.Error(t, err)
}

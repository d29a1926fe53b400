package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusNext_CyclesWithPeriodThree(t *testing.T) {
	for _, start := range StatusOrder {
		s := start
		s = s.Next().Next().Next()
		assert.Equal(t, start, s, "cycling three times should return to %s", start)
	}
}

func TestStatusNext_UnknownTreatedAsNotStarted(t *testing.T) {
	assert.Equal(t, StatusInProgress, Status("bogus").Next())
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusDone, NormalizeStatus(StatusDone))
	assert.Equal(t, StatusNotStarted, NormalizeStatus(Status("deliverable")))
	assert.Equal(t, StatusNotStarted, NormalizeStatus(Status("")))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Not Started", StatusNotStarted.Label())
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Done", StatusDone.Label())
	assert.Equal(t, "Not Started", Status("unknown").Label())
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Phone Call", TitleCase("phone_call"))
	assert.Equal(t, "To Do", TitleCase("to_do"))
	assert.Equal(t, "", TitleCase(""))
}

func TestMillis_RoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	payload, err := json.Marshal(NewMillis(now))
	require.NoError(t, err)

	var decoded Millis
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.True(t, decoded.Equal(now))
}

func TestMillis_NullHandling(t *testing.T) {
	payload, err := json.Marshal(Millis{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(payload))

	var decoded Millis
	require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
	assert.True(t, decoded.IsZero())
}

func TestStartOfDay(t *testing.T) {
	loc := time.Local
	at := time.Date(2025, 3, 14, 17, 42, 9, 12345, loc)
	midnight := StartOfDay(at)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, loc), midnight)
	assert.True(t, SameDay(at, midnight))
	assert.False(t, SameDay(at, midnight.Add(-time.Second)))
}

package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectToken(t *testing.T) {
	assert.Equal(t, "stop_1", subjectToken("stop 1"))
	assert.Equal(t, "a_b_c", subjectToken("a.b/c"))
	assert.Equal(t, "_", subjectToken("  "))
	assert.Equal(t, "plain", subjectToken("plain"))
}

func TestSearchEventJSON(t *testing.T) {
	evt := SearchEvent{
		OriginStopID:  "S1",
		DestStopID:    "S2",
		Direction:     "depart-after",
		RequestedTime: time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
		Found:         true,
		TransferCount: 1,
		DurationMin:   30,
		SearchedAt:    time.Date(2026, 9, 7, 7, 59, 0, 0, time.UTC),
	}
	b, err := json.Marshal(evt)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "S1", back["originStopId"])
	assert.Equal(t, true, back["found"])
	assert.Equal(t, float64(30), back["durationMinutes"])
}

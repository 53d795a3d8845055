package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage_AppendsLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	ev := SeatsOrderedEvent{
		EventID:       "ev-1",
		Row:           3,
		Seats:         []int{4, 5},
		Verdict:       "accepted",
		OccupiedAfter: 12,
		TotalSeats:    100,
		OrderedAt:     "2026-10-19T12:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(dir, body))
	require.NoError(t, handleMessage(dir, body))

	data, err := os.ReadFile(filepath.Join(dir, "seating.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"[2026-10-19T12:00:00Z] Seats ordered | event_id=ev-1 | row=3 | seats=[4,5] | source=customer | verdict=accepted | occupied=12/100",
		lines[0])
}

func TestHandleMessage_RejectsGarbage(t *testing.T) {
	err := handleMessage(t.TempDir(), []byte("{not json"))
	assert.Error(t, err)
}

func TestFormatLine_Allocated(t *testing.T) {
	line := formatLine(SeatsOrderedEvent{Row: 1, Seats: []int{1}, Allocated: true})
	assert.Contains(t, line, "source=allocator")
}

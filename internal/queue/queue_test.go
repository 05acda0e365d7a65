package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLogLine(t *testing.T) {
	msg := EmergencyEventMessage{
		MessageID:  "m-1",
		Action:     ActionCreated,
		EventID:    42,
		UserID:     "auth0|abc123",
		EventType:  "medical",
		Status:     "active",
		Location:   "Av. Providencia 1234",
		OccurredAt: "2026-08-31T12:00:00Z",
	}
	line := FormatLogLine(msg)
	assert.Equal(t, "[2026-08-31T12:00:00Z] event created | msg_id=m-1 | event_id=42 | user_id=auth0|abc123 | type=medical | status=active | location=\"Av. Providencia 1234\"\n", line)
}

func TestFormatLogLineEmptyLocation(t *testing.T) {
	line := FormatLogLine(EmergencyEventMessage{
		Action:     ActionStatusChanged,
		EventID:    7,
		Status:     "resolved",
		OccurredAt: "2026-08-31T12:00:00Z",
	})
	assert.Contains(t, line, "event status_changed")
	assert.Contains(t, line, `location=""`)
}

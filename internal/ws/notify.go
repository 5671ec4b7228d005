package ws

import (
	"encoding/json"
	"time"

	"car-finder/internal/domain"
)

type RunEvent struct {
	Type      string          `json:"type"`
	Phase     domain.RunPhase `json:"phase"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
}

// NotifyRun pushes a phase transition to every connected client.
func NotifyRun(h *Hub, status domain.RunStatus) {
	if h == nil {
		return
	}

	evt := RunEvent{
		Type:      "run_status",
		Phase:     status.Phase,
		Message:   status.Message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.Broadcast(b)
}

package domain

type RunPhase string

const (
	RunIdle      RunPhase = "idle"
	RunRunning   RunPhase = "running"
	RunCompleted RunPhase = "completed"
	RunFailed    RunPhase = "failed"
)

// RunStatus is the observable state of the scrape job. A transition to
// running is only legal when the current phase is not running.
type RunStatus struct {
	Phase   RunPhase `json:"phase"`
	Message string   `json:"message"`
}

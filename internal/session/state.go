package session

// State is the generation lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateGenerating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a point-in-time view of the session.
type Status struct {
	State        State  `json:"state"`
	Extracting   bool   `json:"extracting"`
	Cleaning     bool   `json:"cleaning"`
	HasPoster    bool   `json:"hasPoster"`
	HistoryCount int    `json:"historyCount"`
	LastError    string `json:"lastError,omitempty"`
}

package usage

import "time"

// Operation names one kind of model call.
type Operation string

const (
	OperationPoster  Operation = "poster"
	OperationExtract Operation = "extract"
	OperationClean   Operation = "clean"
)

// Event is a single model call.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Model        string    `json:"model"`
	Operation    Operation `json:"operation"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
}

// Stats holds counters broken down by model and operation.
type Stats struct {
	Calls       int64                  `json:"calls"`
	Total       TokenCounts            `json:"total"`
	ByModel     map[string]TokenCounts `json:"by_model"`
	ByOperation map[string]TokenCounts `json:"by_operation"`
	Since       time.Time              `json:"since"`
	Last        *Event                 `json:"last,omitempty"`
}

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Calls  int64 `json:"calls"`
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

func (tc *TokenCounts) Add(input, output int) {
	tc.Calls++
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}

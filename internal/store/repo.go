package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/quizgen"
)

// ErrNotFound is returned when an update targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	Offset int       // rows to skip
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// RunRepo stores generation runs and their questions.
type RunRepo interface {
	// SaveRun stores a run and all its questions in one transaction.
	SaveRun(ctx context.Context, run dataset.Run, questions []quizgen.Question) error

	// ListRuns returns runs, newest first. From/To filter on creation time.
	ListRuns(ctx context.Context, opts QueryOpts) ([]dataset.Run, error)

	// GetRun returns the run with the given ID, or nil if none exists.
	GetRun(ctx context.Context, id string) (*dataset.Run, error)

	// Questions returns a run's questions ordered by question ID.
	Questions(ctx context.Context, runID string, opts QueryOpts) ([]quizgen.Question, error)

	// CountQuestions returns the number of questions stored for a run.
	CountQuestions(ctx context.Context, runID string) (int, error)

	// UpdateExplanation replaces one question's explanation.
	UpdateExplanation(ctx context.Context, runID string, questionID int, explanation string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events, most recent first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

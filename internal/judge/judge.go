package judge

import (
	"context"
	"errors"
)

// ErrJudgingUnavailable covers any failed judging attempt: transport error,
// non-2xx status, or output that isn't the required JSON shape. There is no
// retry; the caller surfaces it and the room stays complete with no outcome.
var ErrJudgingUnavailable = errors.New("judging unavailable")

// Transcripts is everything the judge sees: each side's arguments joined in
// turn order, the topic, and display names for the feedback text.
type Transcripts struct {
	DebaterA string
	DebaterB string
	Topic    string
	NameA    string
	NameB    string
}

type Scorecard struct {
	DebaterA int `json:"debaterA"`
	DebaterB int `json:"debaterB"`
}

type Feedback struct {
	DebaterA string `json:"debaterA"`
	DebaterB string `json:"debaterB"`
}

// Outcome is the judge's verdict. Winner is "debaterA" or "debaterB".
type Outcome struct {
	Winner   string    `json:"winner"`
	Score    Scorecard `json:"score"`
	Feedback Feedback  `json:"feedback"`
}

type Judge interface {
	Score(ctx context.Context, t Transcripts) (Outcome, error)
	GenerateTopic(ctx context.Context, interest string) (string, error)
}

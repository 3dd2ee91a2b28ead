package room

import (
	"errors"

	"github.com/argumint/debate-backend/internal/engine"
	"github.com/argumint/debate-backend/internal/judge"
)

type EventType string

const (
	EventSnapshot       EventType = "snapshot"
	EventSettingsLocked EventType = "settings_locked"
	EventMessageCreated EventType = "message_created"
	EventTypingChanged  EventType = "typing_status"
	EventJudgmentReady  EventType = "final_judgement"
	EventJudgingFailed  EventType = "judging_failed"
	EventError          EventType = "error"
)

// Snapshot hydrates a fresh subscriber: full persisted message history plus
// the role the room assigned them. Receiving it before any live event is
// what closes the reconnection gap.
type Snapshot struct {
	RoomID         string           `json:"room_id"`
	Topic          string           `json:"topic"`
	MaxRounds      int              `json:"max_rounds"`
	SettingsLocked bool             `json:"settings_locked"`
	Phase          engine.Phase     `json:"phase"`
	Role           engine.Role      `json:"role"`
	Messages       []engine.Message `json:"messages"`
}

type TypingStatus struct {
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

type JudgmentPayload struct {
	Winner   string          `json:"winner"`
	Score    judge.Scorecard `json:"score"`
	Feedback judge.Feedback  `json:"feedback"`
	Topic    string          `json:"topic"`
	NameA    string          `json:"debaterA_name"`
	NameB    string          `json:"debaterB_name"`
}

// Event is what subscribers receive on their outbox. Exactly one payload
// field is set, matching Type. Error events only ever go to the subscriber
// whose input caused them.
type Event struct {
	Type      EventType        `json:"type"`
	Version   int              `json:"version,omitempty"`
	Snapshot  *Snapshot        `json:"snapshot,omitempty"`
	Message   *engine.Message  `json:"message,omitempty"`
	MaxRounds int              `json:"max_rounds,omitempty"`
	Typing    *TypingStatus    `json:"typing,omitempty"`
	Judgment  *JudgmentPayload `json:"judgment,omitempty"`
	Code      string           `json:"code,omitempty"`
}

// errorCode maps engine and store failures to the wire codes clients key on.
func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrWrongTurn):
		return "turn_violation"
	case errors.Is(err, engine.ErrEmptyMessage):
		return "empty_content"
	case errors.Is(err, engine.ErrSettingsLocked):
		return "settings_locked"
	case errors.Is(err, engine.ErrAwaitingSettings):
		return "awaiting_settings"
	case errors.Is(err, engine.ErrDebateComplete):
		return "debate_complete"
	case errors.Is(err, engine.ErrRoomFull):
		return "room_full"
	case errors.Is(err, engine.ErrInvalidRounds):
		return "invalid_rounds"
	case errors.Is(err, engine.ErrNoRole):
		return "no_role"
	default:
		return "send_failed"
	}
}

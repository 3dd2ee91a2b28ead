package engine

import (
	"errors"
	"strings"
	"time"
)

var ErrWrongTurn = errors.New("not your turn")
var ErrEmptyMessage = errors.New("empty message")
var ErrSettingsLocked = errors.New("settings already locked")
var ErrAwaitingSettings = errors.New("settings not confirmed")
var ErrDebateComplete = errors.New("debate already complete")
var ErrRoomFull = errors.New("room already has two debaters")
var ErrInvalidRounds = errors.New("round target must be positive")
var ErrNoRole = errors.New("no role assigned")

type Role string

const (
	RoleA Role = "A"
	RoleB Role = "B"
)

type Phase string

const (
	PhaseAwaitingSettings Phase = "awaiting_settings"
	PhaseInProgress       Phase = "in_progress"
	PhaseComplete         Phase = "complete"
)

// Message is serialized as-is into snapshot and message_created events,
// so the tags are part of the wire format.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type State struct {
	RoomID         string
	Topic          string
	MaxRounds      int
	SettingsLocked bool
	Roles          map[string]Role // user id -> role, arrival order
	Messages       []Message
}

type CommandType string

const (
	CmdConfirmSettings CommandType = "ConfirmSettings"
	CmdSendMessage     CommandType = "SendMessage"
)

type Command struct {
	Type      CommandType
	UserID    string
	MaxRounds int

	// SendMessage fields. The caller mints the id and timestamp so the
	// appended Message is identical to the row that gets persisted.
	MessageID string
	Name      string
	Text      string
	At        time.Time
}

type EventType string

const (
	EvtSettingsLocked  EventType = "SettingsLocked"
	EvtMessageAdded    EventType = "MessageAdded"
	EvtDebateCompleted EventType = "DebateCompleted"
)

type Event struct {
	Type      EventType
	MaxRounds int
	Message   *Message
}

// Apply validates cmd against s and returns the events plus the new state.
// s is never mutated; validation errors leave the debate untouched.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdConfirmSettings:
		if s.SettingsLocked {
			return nil, s, ErrSettingsLocked
		}
		if cmd.MaxRounds <= 0 {
			return nil, s, ErrInvalidRounds
		}
		newState := s
		newState.MaxRounds = cmd.MaxRounds
		newState.SettingsLocked = true
		events := []Event{{Type: EvtSettingsLocked, MaxRounds: cmd.MaxRounds}}
		return events, newState, nil

	case CmdSendMessage:
		if !s.SettingsLocked {
			return nil, s, ErrAwaitingSettings
		}
		if Completed(s) {
			return nil, s, ErrDebateComplete
		}
		if strings.TrimSpace(cmd.Text) == "" {
			return nil, s, ErrEmptyMessage
		}
		role, ok := s.Roles[cmd.UserID]
		if !ok {
			return nil, s, ErrNoRole
		}
		if !CanSend(s, cmd.UserID) {
			return nil, s, ErrWrongTurn
		}

		msg := Message{
			ID:        cmd.MessageID,
			UserID:    cmd.UserID,
			Name:      cmd.Name,
			Role:      role,
			Text:      strings.TrimSpace(cmd.Text),
			CreatedAt: cmd.At,
		}

		newState := s
		newState.Messages = append(append([]Message{}, s.Messages...), msg)

		events := []Event{{Type: EvtMessageAdded, Message: &msg}}
		if Completed(newState) {
			events = append(events, Event{Type: EvtDebateCompleted})
		}
		return events, newState, nil

	default:
		return nil, s, errors.New("unsupported command")
	}
}

// Completed reports whether the room has accumulated every turn:
// one message per role per round.
func Completed(s State) bool {
	return s.SettingsLocked && len(s.Messages) >= 2*s.MaxRounds
}

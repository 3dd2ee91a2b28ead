package engine

import (
	"errors"
	"testing"
	"time"
)

func lockedState(maxRounds int) State {
	s := NewState("room1", "Cats are better than dogs.")
	s.MaxRounds = maxRounds
	s.SettingsLocked = true
	s.Roles = map[string]Role{"ua": RoleA, "ub": RoleB}
	return s
}

func sendCmd(userID, text string) Command {
	return Command{
		Type:      CmdSendMessage,
		UserID:    userID,
		MessageID: "m-" + text,
		Name:      userID,
		Text:      text,
		At:        time.Now(),
	}
}

// apply fails the test on error and returns the events plus the next state.
func apply(t *testing.T, s State, cmd Command) ([]Event, State) {
	t.Helper()
	events, next, err := Apply(s, cmd)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return events, next
}

func TestTurnAlternation(t *testing.T) {
	// Full round-target=2 debate: A, B, A, B, then complete.
	s := lockedState(2)

	if !CanSend(s, "ua") {
		t.Fatalf("A must open the debate")
	}
	if CanSend(s, "ub") {
		t.Fatalf("B must not open the debate")
	}

	_, s = apply(t, s, sendCmd("ua", "opening"))
	if CanSend(s, "ua") || !CanSend(s, "ub") {
		t.Fatalf("after A's message only B may send")
	}

	_, s = apply(t, s, sendCmd("ub", "rebuttal"))
	if !CanSend(s, "ua") || CanSend(s, "ub") {
		t.Fatalf("after B's message only A may send")
	}

	_, s = apply(t, s, sendCmd("ua", "second"))
	events, s := apply(t, s, sendCmd("ub", "closing"))

	if !ContainsEvent(events, EvtDebateCompleted) {
		t.Fatalf("fourth message must complete a 2-round debate")
	}
	if DerivePhase(s) != PhaseComplete {
		t.Fatalf("want phase complete, got %v", DerivePhase(s))
	}
	if CanSend(s, "ua") || CanSend(s, "ub") {
		t.Fatalf("nobody may send after completion")
	}
}

func TestDoubleSendRejected(t *testing.T) {
	s := lockedState(3)
	_, s = apply(t, s, sendCmd("ua", "one"))

	_, _, err := Apply(s, sendCmd("ua", "two"))
	if !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("want ErrWrongTurn, got %v", err)
	}
}

func TestSendRejections(t *testing.T) {
	completed := lockedState(1)
	completed.Messages = []Message{
		{ID: "m1", UserID: "ua", Role: RoleA, Text: "one"},
		{ID: "m2", UserID: "ub", Role: RoleB, Text: "two"},
	}

	unlocked := lockedState(3)
	unlocked.SettingsLocked = false

	unseated := lockedState(3)
	unseated.Roles = map[string]Role{"ub": RoleB}

	cases := []struct {
		name    string
		setup   State
		cmd     Command
		wantErr error
	}{
		{
			name:    "blank text",
			setup:   lockedState(3),
			cmd:     sendCmd("ua", "   "),
			wantErr: ErrEmptyMessage,
		},
		{
			name:    "settings not confirmed",
			setup:   unlocked,
			cmd:     sendCmd("ua", "hello"),
			wantErr: ErrAwaitingSettings,
		},
		{
			name:    "unknown sender",
			setup:   unseated,
			cmd:     sendCmd("ua", "hello"),
			wantErr: ErrNoRole,
		},
		{
			name:    "debate already complete",
			setup:   completed,
			cmd:     sendCmd("ua", "extra"),
			wantErr: ErrDebateComplete,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, next, err := Apply(tc.setup, tc.cmd)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if len(next.Messages) != len(tc.setup.Messages) {
				t.Fatalf("rejected command must not change state")
			}
		})
	}
}

func TestConfirmSettings(t *testing.T) {
	s := NewState("room1", "topic")

	events, s, err := Apply(s, Command{Type: CmdConfirmSettings, UserID: "ua", MaxRounds: 3})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !s.SettingsLocked || s.MaxRounds != 3 {
		t.Fatalf("settings not applied: %+v", s)
	}
	if !ContainsEvent(events, EvtSettingsLocked) {
		t.Fatalf("want SettingsLocked event")
	}

	// Repeat after lock is rejected, state untouched.
	_, s2, err := Apply(s, Command{Type: CmdConfirmSettings, UserID: "ub", MaxRounds: 5})
	if !errors.Is(err, ErrSettingsLocked) {
		t.Fatalf("want ErrSettingsLocked, got %v", err)
	}
	if s2.MaxRounds != 3 {
		t.Fatalf("second confirm must not change rounds")
	}
}

func TestConfirmSettingsInvalidRounds(t *testing.T) {
	s := NewState("room1", "topic")
	for _, rounds := range []int{0, -1} {
		_, _, err := Apply(s, Command{Type: CmdConfirmSettings, UserID: "ua", MaxRounds: rounds})
		if !errors.Is(err, ErrInvalidRounds) {
			t.Fatalf("rounds=%d: want ErrInvalidRounds, got %v", rounds, err)
		}
	}
}

func TestAssignRoleArrivalOrder(t *testing.T) {
	s := NewState("room1", "topic")

	roleA, s, err := AssignRole(s, "first")
	if err != nil || roleA != RoleA {
		t.Fatalf("first arrival: want A, got %v (%v)", roleA, err)
	}

	roleB, s, err := AssignRole(s, "second")
	if err != nil || roleB != RoleB {
		t.Fatalf("second arrival: want B, got %v (%v)", roleB, err)
	}

	// Reconnect recovers the same role, however many times.
	for i := 0; i < 3; i++ {
		again, _, err := AssignRole(s, "first")
		if err != nil || again != RoleA {
			t.Fatalf("reconnect: want A, got %v (%v)", again, err)
		}
	}

	_, _, err = AssignRole(s, "third")
	if !errors.Is(err, ErrRoomFull) {
		t.Fatalf("third arrival: want ErrRoomFull, got %v", err)
	}
}

func TestRolesFromMessages(t *testing.T) {
	msgs := []Message{
		{UserID: "ua", Role: RoleA},
		{UserID: "ub", Role: RoleB},
		{UserID: "ua", Role: RoleA},
	}
	roles := RolesFromMessages(msgs)
	if roles["ua"] != RoleA || roles["ub"] != RoleB {
		t.Fatalf("roles not recovered: %+v", roles)
	}
}

func TestCompletionIsExact(t *testing.T) {
	s := lockedState(2)
	_, s = apply(t, s, sendCmd("ua", "1"))
	_, s = apply(t, s, sendCmd("ub", "2"))
	_, s = apply(t, s, sendCmd("ua", "3"))

	// Three of four messages: not complete.
	if Completed(s) {
		t.Fatalf("must not complete before 2*maxRounds messages")
	}
	if DerivePhase(s) != PhaseInProgress {
		t.Fatalf("want in_progress, got %v", DerivePhase(s))
	}

	events, s := apply(t, s, sendCmd("ub", "4"))
	if !Completed(s) {
		t.Fatalf("must complete at exactly 2*maxRounds messages")
	}
	if !ContainsEvent(events, EvtDebateCompleted) {
		t.Fatalf("completion event missing")
	}
}

func TestTranscript(t *testing.T) {
	s := lockedState(2)
	_, s = apply(t, s, sendCmd("ua", "a1"))
	_, s = apply(t, s, sendCmd("ub", "b1"))
	_, s = apply(t, s, sendCmd("ua", "a2"))
	_, s = apply(t, s, sendCmd("ub", "b2"))

	if got := Transcript(s, RoleA); got != "a1\na2" {
		t.Fatalf("transcript A: got %q", got)
	}
	if got := Transcript(s, RoleB); got != "b1\nb2" {
		t.Fatalf("transcript B: got %q", got)
	}
}

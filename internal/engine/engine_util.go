package engine

// NewState returns the state of a freshly created room: topic set, rounds
// unconfirmed, nobody seated.
func NewState(roomID, topic string) State {
	return State{
		RoomID: roomID,
		Topic:  topic,
		Roles:  map[string]Role{},
	}
}

// RolesFromMessages rebuilds role bindings from persisted history. The first
// message a user authored fixes their role, which is what makes role
// recovery stable across reconnects.
func RolesFromMessages(msgs []Message) map[string]Role {
	roles := map[string]Role{}
	for _, m := range msgs {
		if _, ok := roles[m.UserID]; !ok {
			roles[m.UserID] = m.Role
		}
	}
	return roles
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// DerivePhase maps state to the room lifecycle phase.
func DerivePhase(s State) Phase {
	if !s.SettingsLocked {
		return PhaseAwaitingSettings
	}
	if Completed(s) {
		return PhaseComplete
	}
	return PhaseInProgress
}

// Transcript joins one side's messages in order, one argument per line.
func Transcript(s State, role Role) string {
	out := ""
	for _, m := range s.Messages {
		if m.Role != role {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += m.Text
	}
	return out
}

// RoleUser returns the user id holding role, if anyone does.
func RoleUser(s State, role Role) (string, bool) {
	for id, r := range s.Roles {
		if r == role {
			return id, true
		}
	}
	return "", false
}

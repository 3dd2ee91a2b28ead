package engine

// AssignRole binds userID to a role in arrival order: first debater is "A",
// second is "B". A user who already holds a role keeps it, so reconnecting
// always recovers the same side. The third distinct user is rejected.
func AssignRole(s State, userID string) (Role, State, error) {
	if role, ok := s.Roles[userID]; ok {
		return role, s, nil
	}

	taken := map[Role]bool{}
	for _, r := range s.Roles {
		taken[r] = true
	}

	var role Role
	switch {
	case !taken[RoleA]:
		role = RoleA
	case !taken[RoleB]:
		role = RoleB
	default:
		return "", s, ErrRoomFull
	}

	newState := s
	newState.Roles = make(map[string]Role, len(s.Roles)+1)
	for id, r := range s.Roles {
		newState.Roles[id] = r
	}
	newState.Roles[userID] = role
	return role, newState, nil
}

// NextRole is the turn rule: "A" opens, then strict alternation keyed off
// whoever authored the last message.
func NextRole(s State) Role {
	if len(s.Messages) == 0 {
		return RoleA
	}
	if s.Messages[len(s.Messages)-1].Role == RoleA {
		return RoleB
	}
	return RoleA
}

// CanSend reports whether userID may send the next message.
func CanSend(s State, userID string) bool {
	if !s.SettingsLocked || Completed(s) {
		return false
	}
	role, ok := s.Roles[userID]
	if !ok {
		return false
	}
	return role == NextRole(s)
}

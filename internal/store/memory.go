package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and local development.
type Memory struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	roles    map[string]map[string]string
	messages map[string][]LiveMessage
	debates  []Debate
	nextID   uint

	// FailAppend makes AppendMessage return the given error, for
	// exercising send-failure paths.
	FailAppend error
}

func NewMemory() *Memory {
	return &Memory{
		rooms:    map[string]*Room{},
		roles:    map[string]map[string]string{},
		messages: map[string][]LiveMessage{},
	}
}

func (m *Memory) CreateRoom(ctx context.Context, room *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *room
	m.rooms[room.ID] = &cp
	return nil
}

func (m *Memory) GetRoom(ctx context.Context, id string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (m *Memory) LockSettings(ctx context.Context, roomID string, maxRounds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	room.MaxRounds = maxRounds
	room.SettingsLocked = true
	return nil
}

func (m *Memory) BindRole(ctx context.Context, roomID, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roles[roomID] == nil {
		m.roles[roomID] = map[string]string{}
	}
	if _, ok := m.roles[roomID][userID]; !ok {
		m.roles[roomID][userID] = role
	}
	return nil
}

func (m *Memory) ListRoleBindings(ctx context.Context, roomID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.roles[roomID]))
	for uid, role := range m.roles[roomID] {
		out[uid] = role
	}
	return out, nil
}

func (m *Memory) AppendMessage(ctx context.Context, msg *LiveMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAppend != nil {
		return m.FailAppend
	}
	m.messages[msg.RoomID] = append(m.messages[msg.RoomID], *msg)
	return nil
}

func (m *Memory) ListMessages(ctx context.Context, roomID string) ([]LiveMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LiveMessage{}, m.messages[roomID]...), nil
}

func (m *Memory) ClaimJudgment(ctx context.Context, roomID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return false, ErrNotFound
	}
	if room.Judged {
		return false, nil
	}
	room.Judged = true
	return true, nil
}

func (m *Memory) SaveDebates(ctx context.Context, debates []Debate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range debates {
		m.nextID++
		d.ID = m.nextID
		m.debates = append(m.debates, d)
	}
	return nil
}

func (m *Memory) ListDebates(ctx context.Context, userID string) ([]Debate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Debate
	for _, d := range m.debates {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

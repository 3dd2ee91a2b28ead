package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/argumint/debate-backend/internal/engine"
	"github.com/argumint/debate-backend/internal/judge"
	"github.com/argumint/debate-backend/internal/room"
	"github.com/argumint/debate-backend/internal/store"
)

type stubJudge struct{}

func (stubJudge) Score(ctx context.Context, t judge.Transcripts) (judge.Outcome, error) {
	return judge.Outcome{Winner: "debaterA"}, nil
}

func (stubJudge) GenerateTopic(ctx context.Context, interest string) (string, error) {
	return "Generated topic", nil
}

func ensure(t *testing.T, h *Hub, id, topic string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- EnsureRoom{ID: id, Topic: topic, Reply: reply}
	select {
	case r := <-reply:
		return r
	case <-time.After(time.Second):
		t.Fatalf("timed out ensuring room")
		return nil
	}
}

func view(t *testing.T, r *room.Room) room.View {
	t.Helper()
	reply := make(chan room.View, 1)
	r.Inbox() <- room.GetState{Reply: reply}
	select {
	case v := <-reply:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out reading room state")
		return room.View{}
	}
}

func TestHub_EnsureCreatesAndReturnsSamePointer(t *testing.T) {
	mem := store.NewMemory()
	h := NewHub(context.Background(), mem, stubJudge{}, zap.NewNop())

	r1 := ensure(t, h, "room1", "Cats > dogs")
	require.NotNil(t, r1)
	r2 := ensure(t, h, "room1", "ignored")
	require.Same(t, r1, r2)

	// First visit persisted the room with its topic.
	row, err := mem.GetRoom(context.Background(), "room1")
	require.NoError(t, err)
	require.Equal(t, "Cats > dogs", row.Topic)
}

func TestHub_EnsureGeneratesTopicWhenEmpty(t *testing.T) {
	mem := store.NewMemory()
	h := NewHub(context.Background(), mem, stubJudge{}, zap.NewNop())

	r := ensure(t, h, "room1", "")
	require.NotNil(t, r)

	row, err := mem.GetRoom(context.Background(), "room1")
	require.NoError(t, err)
	require.Equal(t, "Generated topic", row.Topic)
}

func TestHub_GetUnknownRoomIsNil(t *testing.T) {
	h := NewHub(context.Background(), store.NewMemory(), stubJudge{}, zap.NewNop())

	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{ID: "nope", Reply: reply}
	require.Nil(t, <-reply)
}

func TestHub_EnsureRehydratesFromStore(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.CreateRoom(ctx, &store.Room{
		ID: "room1", Topic: "Cats > dogs", MaxRounds: 3, SettingsLocked: true,
	}))
	require.NoError(t, mem.AppendMessage(ctx, &store.LiveMessage{
		ID: "m1", RoomID: "room1", UserID: "ua", Name: "Alice", Role: "A", Message: "opening",
	}))
	require.NoError(t, mem.AppendMessage(ctx, &store.LiveMessage{
		ID: "m2", RoomID: "room1", UserID: "ub", Name: "Bob", Role: "B", Message: "rebuttal",
	}))

	h := NewHub(ctx, mem, stubJudge{}, zap.NewNop())
	r := ensure(t, h, "room1", "")
	require.NotNil(t, r)

	v := view(t, r)
	require.True(t, v.State.SettingsLocked)
	require.Equal(t, 3, v.State.MaxRounds)
	require.Len(t, v.State.Messages, 2)
	require.Equal(t, engine.RoleA, v.State.Roles["ua"])
	require.Equal(t, engine.RoleB, v.State.Roles["ub"])
	// Two of six turns played: it is A's turn again.
	require.True(t, engine.CanSend(v.State, "ua"))
}

func TestHub_SeatsSurviveEvictionBeforeFirstMessage(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	h := NewHub(ctx, mem, stubJudge{}, zap.NewNop())

	r1 := ensure(t, h, "room1", "Cats > dogs")
	require.NotNil(t, r1)

	// Both debaters take seats but neither sends a message.
	join := func(userID, name string) {
		out := make(chan room.Event, 4)
		r1.Inbox() <- room.Join{SubID: userID + "-sub", UserID: userID, Name: name, Outbox: out}
		select {
		case ev := <-out:
			require.Equal(t, room.EventSnapshot, ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("timed out joining %s", userID)
		}
	}
	join("ua", "Alice")
	join("ub", "Bob")

	h.Inbox() <- RemoveRoom{ID: "room1"}

	r2 := ensure(t, h, "room1", "")
	require.NotNil(t, r2)
	require.NotSame(t, r1, r2)

	// The rebuilt actor has no message history to go on; the join-time
	// bindings must restore both seats as they were.
	v := view(t, r2)
	require.Equal(t, engine.RoleA, v.State.Roles["ua"])
	require.Equal(t, engine.RoleB, v.State.Roles["ub"])
}

func TestHub_RemoveDropsActorButKeepsHistory(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	h := NewHub(ctx, mem, stubJudge{}, zap.NewNop())

	r1 := ensure(t, h, "room1", "Cats > dogs")
	require.NotNil(t, r1)

	h.Inbox() <- RemoveRoom{ID: "room1"}

	r2 := ensure(t, h, "room1", "")
	require.NotNil(t, r2)
	require.NotSame(t, r1, r2)

	v := view(t, r2)
	require.Equal(t, "Cats > dogs", v.State.Topic)
}

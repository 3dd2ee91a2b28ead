package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_ClaimJudgmentFiresOnce(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.CreateRoom(ctx, &Room{ID: "room1", Topic: "t"}))

	// Both participants' completion detections race the claim;
	// exactly one wins.
	var mu sync.Mutex
	wins := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := mem.ClaimJudgment(ctx, "room1")
			require.NoError(t, err)
			if claimed {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestMemory_DebateRoundTrip(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	in := Debate{
		RoomID:         "room1",
		UserID:         "ua",
		Topic:          "Cats > dogs",
		TranscriptUser: "a1\na2",
		TranscriptAI:   "b1\nb2",
		Winner:         "debaterA",
		ScoreUser:      82,
		ScoreAI:        74,
		FeedbackUser:   "sharp",
		FeedbackAI:     "solid",
	}
	require.NoError(t, mem.SaveDebates(ctx, []Debate{in}))

	rows, err := mem.ListDebates(ctx, "ua")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	got.ID = 0
	require.Equal(t, in, got)
}

func TestMemory_BindRoleFirstWriteWins(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.BindRole(ctx, "room1", "ua", "A"))
	require.NoError(t, mem.BindRole(ctx, "room1", "ub", "B"))
	// A later re-bind must not move an existing seat.
	require.NoError(t, mem.BindRole(ctx, "room1", "ua", "B"))

	bindings, err := mem.ListRoleBindings(ctx, "room1")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"ua": "A", "ub": "B"}, bindings)

	other, err := mem.ListRoleBindings(ctx, "room2")
	require.NoError(t, err)
	require.Empty(t, other)
}

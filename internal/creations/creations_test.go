package creations

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/brickworld/internal/kv"
	"github.com/HendryAvila/brickworld/internal/scene"
)

// --- Helpers ---

func fixedClock(t *testing.T) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })
}

func newTestAdapter(t *testing.T) (*Adapter, *scene.Store, kv.Store) {
	t.Helper()
	n := 0
	sc := scene.New(scene.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("b%d", n)
	}))
	store := kv.NewMemory()
	return NewAdapter(store, sc), sc, store
}

// --- Normalize ---

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Build", "my_build"},
		{"my   build", "my_build"},
		{"my\tbuild", "my_build"},
		{"  my build ", "_my_build_"},
		{"CASTLE", "castle"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "brickworld-creation-my_build", Key("My Build"))
}

// --- Save / Load ---

func TestSaveLoad_NormalizedNamesShareKey(t *testing.T) {
	fixedClock(t)
	a, sc, _ := newTestAdapter(t)
	ctx := context.Background()

	sc.Place(scene.Position{1, 2, 3})
	sc.Place(scene.Position{4, 5, 6})
	saved := sc.Blocks()

	_, err := a.Save(ctx, "My Build")
	require.NoError(t, err)

	sc.Clear()
	res, err := a.Load(ctx, "my   build")
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	assert.True(t, res.OK())
	assert.Equal(t, saved, sc.Blocks())
	assert.Equal(t, "My Build", res.Creation.Name)
}

func TestLoad_PaddedNameIsDistinct(t *testing.T) {
	a, sc, _ := newTestAdapter(t)
	ctx := context.Background()

	sc.Place(scene.Position{0, 0, 0})
	_, err := a.Save(ctx, "My Build")
	require.NoError(t, err)

	res, err := a.Load(ctx, "  my   build  ")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, res.Status)
}

func TestSave_WritesLayout(t *testing.T) {
	fixedClock(t)
	a, sc, store := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{1, 0, 2})

	c, err := a.Save(ctx, "Tower")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14T15:09:26Z", c.SavedAt)

	data, err := store.Get(ctx, "brickworld-creation-tower")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Tower", raw["name"])
	assert.Equal(t, "2026-03-14T15:09:26Z", raw["savedAt"])
	blocks, ok := raw["blocks"].([]any)
	require.True(t, ok)
	require.Len(t, blocks, 1)
	block := blocks[0].(map[string]any)
	assert.Equal(t, "b1", block["id"])
	assert.Equal(t, []any{1.0, 0.0, 2.0}, block["position"])
}

func TestSave_LastWriteWins(t *testing.T) {
	a, sc, _ := newTestAdapter(t)
	ctx := context.Background()

	sc.Place(scene.Position{0, 0, 0})
	_, err := a.Save(ctx, "house")
	require.NoError(t, err)

	sc.Place(scene.Position{1, 0, 0})
	_, err = a.Save(ctx, "HOUSE")
	require.NoError(t, err)

	names, err := a.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"HOUSE"}, names)

	res, err := a.Load(ctx, "house")
	require.NoError(t, err)
	assert.Len(t, res.Creation.Blocks, 2)
}

func TestSave_EmptyNameRejected(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	for _, name := range []string{"", "   "} {
		_, err := a.Save(context.Background(), name)
		assert.ErrorIs(t, err, ErrEmptyName)
	}
}

func TestLoad_ResetsHistory(t *testing.T) {
	a, sc, _ := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{0, 0, 0})
	_, err := a.Save(ctx, "one")
	require.NoError(t, err)
	sc.Place(scene.Position{1, 0, 0})
	require.Equal(t, 2, sc.HistoryLen())

	res, err := a.Load(ctx, "one")
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, 0, sc.HistoryLen())
	assert.False(t, sc.Undo())
}

func TestLoad_NotFoundLeavesBlocks(t *testing.T) {
	a, sc, _ := newTestAdapter(t)
	sc.Place(scene.Position{0, 0, 0})
	before := sc.Blocks()

	res, err := a.Load(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Nil(t, res.Creation)
	assert.Equal(t, before, sc.Blocks())
	assert.Equal(t, 1, sc.HistoryLen())
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"name": "x", "blocks": [`},
		{"wrong shape", `{"name": "x", "blocks": "nope"}`},
		{"bad rotation", `{"name": "x", "blocks": [{"id":"a","typeId":"brick_1x1","position":[0,0,0],"rotation":45,"color":"#fff"}]}`},
		{"missing id", `{"name": "x", "blocks": [{"typeId":"brick_1x1","position":[0,0,0],"rotation":0,"color":"#fff"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, sc, store := newTestAdapter(t)
			ctx := context.Background()
			sc.Place(scene.Position{0, 0, 0})
			before := sc.Blocks()
			require.NoError(t, store.Set(ctx, Key("x"), []byte(tt.payload)))

			res, err := a.Load(ctx, "x")
			require.NoError(t, err)
			assert.Equal(t, StatusParseError, res.Status)
			assert.NotEmpty(t, res.Reason)
			assert.Equal(t, before, sc.Blocks())
		})
	}
}

func TestLoad_EmptyBlocks(t *testing.T) {
	a, sc, store := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{0, 0, 0})
	require.NoError(t, store.Set(ctx, Key("blank"), []byte(`{"name":"blank","blocks":null,"savedAt":""}`)))

	res, err := a.Load(ctx, "blank")
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Empty(t, sc.Blocks())
}

func TestPeek_DoesNotTouchScene(t *testing.T) {
	a, sc, _ := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{0, 0, 0})
	_, err := a.Save(ctx, "snap")
	require.NoError(t, err)
	sc.Clear()

	res, err := a.Peek(ctx, "snap")
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Len(t, res.Creation.Blocks, 1)
	assert.Empty(t, sc.Blocks())
	assert.Equal(t, 2, sc.HistoryLen())
}

// --- List / Summaries / Delete ---

func TestList_SkipsUnparsableAndForeignKeys(t *testing.T) {
	a, sc, store := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{0, 0, 0})

	for _, name := range []string{"zebra", "Alpha", "middle"} {
		_, err := a.Save(ctx, name)
		require.NoError(t, err)
	}
	require.NoError(t, store.Set(ctx, Key("broken"), []byte("not json")))
	require.NoError(t, store.Set(ctx, "unrelated", []byte(`{"name":"nope","blocks":[]}`)))
	require.NoError(t, a.SaveSession(ctx))

	names, err := a.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "middle", "zebra"}, names)
}

func TestList_Empty(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	names, err := a.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSummaries(t *testing.T) {
	fixedClock(t)
	a, sc, _ := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{0, 0, 0})
	sc.Place(scene.Position{1, 0, 0})
	_, err := a.Save(ctx, "Two Blocks")
	require.NoError(t, err)

	got, err := a.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Summary{
		Name:       "Two Blocks",
		Key:        "brickworld-creation-two_blocks",
		BlockCount: 2,
		SavedAt:    "2026-03-14T15:09:26Z",
	}, got[0])
}

func TestDelete(t *testing.T) {
	a, sc, _ := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{0, 0, 0})
	_, err := a.Save(ctx, "Gone Soon")
	require.NoError(t, err)

	require.NoError(t, a.Delete(ctx, "gone   soon"))
	res, err := a.Load(ctx, "Gone Soon")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, res.Status)

	// Deleting again is a no-op.
	assert.NoError(t, a.Delete(ctx, "Gone Soon"))
}

// --- Session ---

func TestSession_RoundTrip(t *testing.T) {
	a, sc, store := newTestAdapter(t)
	ctx := context.Background()

	sc.SetSelectedType("plate_2x4")
	sc.SetSelectedColor("#0055BF")
	sc.Rotate()
	sc.Place(scene.Position{3, 0, 3})
	sc.ToggleDeleteMode()
	require.NoError(t, a.SaveSession(ctx))

	restored := scene.New()
	b := NewAdapter(store, restored)
	status, err := b.RestoreSession(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	assert.Equal(t, sc.Blocks(), restored.Blocks())
	sel := restored.Selection()
	assert.Equal(t, "plate_2x4", sel.TypeID)
	assert.Equal(t, "#0055BF", sel.Color)
	assert.Equal(t, scene.Rotation90, sel.Rotation)
	assert.False(t, sel.DeleteMode, "delete mode is not persisted")
	assert.Equal(t, 0, restored.HistoryLen(), "history is not persisted")
}

func TestSession_Layout(t *testing.T) {
	a, sc, store := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{0, 0, 0})
	require.NoError(t, a.SaveSession(ctx))

	data, err := store.Get(ctx, SessionKey)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "blocks")
	assert.Contains(t, raw, "selectedBlockType")
	assert.Contains(t, raw, "selectedColor")
	assert.Contains(t, raw, "currentRotation")
	assert.NotContains(t, raw, "deleteMode")
	assert.NotContains(t, raw, "history")
}

func TestRestoreSession_Missing(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	status, err := a.RestoreSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, status)
}

func TestRestoreSession_Malformed(t *testing.T) {
	a, sc, store := newTestAdapter(t)
	ctx := context.Background()
	sc.Place(scene.Position{0, 0, 0})
	require.NoError(t, store.Set(ctx, SessionKey, []byte("{")))

	status, err := a.RestoreSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusParseError, status)
	assert.Len(t, sc.Blocks(), 1)
}

func TestRestoreSession_PartialSelectionUsesDefaults(t *testing.T) {
	a, sc, store := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, SessionKey, []byte(`{"blocks":[],"selectedColor":"#F2CD37","currentRotation":33}`)))

	status, err := a.RestoreSession(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	sel := sc.Selection()
	def := scene.DefaultSelection()
	assert.Equal(t, def.TypeID, sel.TypeID)
	assert.Equal(t, "#F2CD37", sel.Color)
	assert.Equal(t, def.Rotation, sel.Rotation)
}

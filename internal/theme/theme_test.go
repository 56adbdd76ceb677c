package theme

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/brickworld/internal/kv"
)

func setNow(t *testing.T, month time.Month, day int) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, month, day, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })
}

// --- Catalog ---

func TestAll_HasUniqueIDsAndPalettes(t *testing.T) {
	seen := map[string]bool{}
	for _, th := range All() {
		assert.False(t, seen[th.ID], "duplicate theme %s", th.ID)
		seen[th.ID] = true
		assert.NotEmpty(t, th.Name)
		assert.NotEmpty(t, th.Emoji)
		assert.NotEmpty(t, th.Palette, "theme %s has no palette", th.ID)
	}
	assert.True(t, seen[DefaultID])
}

func TestLookup_ReturnsCopy(t *testing.T) {
	th, ok := Lookup("classic")
	require.True(t, ok)
	th.Palette[0].Hex = "#000000"

	again, _ := Lookup("classic")
	assert.NotEqual(t, "#000000", again.Palette[0].Hex)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestColorByID(t *testing.T) {
	c, ok := Default().ColorByID("RED")
	require.True(t, ok)
	assert.Equal(t, "#C91A09", c.Hex)

	_, ok = Default().ColorByID("ultraviolet")
	assert.False(t, ok)
}

// --- ForDate ---

func TestForDate(t *testing.T) {
	tests := []struct {
		month time.Month
		day   int
		want  string
	}{
		{time.January, 6, "winter"},
		{time.January, 7, "classic"},
		{time.February, 1, "valentine"},
		{time.February, 14, "valentine"},
		{time.February, 15, "classic"},
		{time.March, 19, "classic"},
		{time.March, 20, "spring"},
		{time.May, 31, "spring"},
		{time.June, 1, "summer"},
		{time.August, 31, "summer"},
		{time.September, 15, "classic"},
		{time.October, 1, "halloween"},
		{time.October, 31, "halloween"},
		{time.November, 30, "classic"},
		{time.December, 1, "winter"},
		{time.December, 31, "winter"},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			got := ForDate(time.Date(2026, tt.month, tt.day, 0, 0, 0, 0, time.UTC))
			assert.Equal(t, tt.want, got.ID, "%s %d", tt.month, tt.day)
		})
	}
}

// --- Selector ---

func TestNewSelector_StartsAuto(t *testing.T) {
	setNow(t, time.October, 20)
	s := NewSelector()
	assert.True(t, s.AutoDetect())
	assert.Equal(t, "halloween", s.Current().ID)
}

func TestSetTheme_PinsManual(t *testing.T) {
	setNow(t, time.October, 20)
	s := NewSelector()

	require.True(t, s.SetTheme("spring"))
	assert.False(t, s.AutoDetect())
	assert.Equal(t, "spring", s.Current().ID)

	// Manual mode ignores the calendar.
	assert.False(t, s.Refresh())
	assert.Equal(t, "spring", s.Current().ID)
}

func TestSetTheme_UnknownIsNoop(t *testing.T) {
	setNow(t, time.October, 20)
	s := NewSelector()
	assert.False(t, s.SetTheme("disco"))
	assert.True(t, s.AutoDetect())
	assert.Equal(t, "halloween", s.Current().ID)
}

func TestRefresh_FollowsDateInAuto(t *testing.T) {
	setNow(t, time.October, 31)
	s := NewSelector()
	assert.False(t, s.Refresh(), "same day should not change")

	timeNow = func() time.Time { return time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC) }
	assert.True(t, s.Refresh())
	assert.Equal(t, "classic", s.Current().ID)
}

func TestToggleAutoDetect(t *testing.T) {
	setNow(t, time.July, 4)
	s := NewSelector()
	require.Equal(t, "summer", s.Current().ID)

	// auto -> manual freezes what is shown.
	assert.False(t, s.ToggleAutoDetect())
	timeNow = func() time.Time { return time.Date(2026, time.December, 24, 0, 0, 0, 0, time.UTC) }
	s.Refresh()
	assert.Equal(t, "summer", s.Current().ID)

	// manual -> auto re-evaluates immediately.
	assert.True(t, s.ToggleAutoDetect())
	assert.Equal(t, "winter", s.Current().ID)
}

func TestRestore(t *testing.T) {
	setNow(t, time.February, 10)

	tests := []struct {
		name     string
		state    State
		wantID   string
		wantAuto bool
	}{
		{"auto ignores stored id", State{CurrentTheme: ThemeRef{ID: "summer"}, AutoDetect: true}, "valentine", true},
		{"manual known id", State{CurrentTheme: ThemeRef{ID: "halloween"}}, "halloween", false},
		{"manual unknown id falls back to auto", State{CurrentTheme: ThemeRef{ID: "retired"}}, "valentine", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector()
			s.SetTheme("classic")
			s.Restore(tt.state)
			assert.Equal(t, tt.wantID, s.Current().ID)
			assert.Equal(t, tt.wantAuto, s.AutoDetect())
		})
	}
}

// --- Persistence ---

func TestSaveLoad_RoundTrip(t *testing.T) {
	setNow(t, time.April, 1)
	ctx := context.Background()
	store := kv.NewMemory()

	s := NewSelector()
	s.SetTheme("winter")
	require.NoError(t, Save(ctx, store, s))

	data, err := store.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentTheme":{"id":"winter"},"autoDetect":false}`, string(data))

	other := NewSelector()
	ok, err := Load(ctx, store, other)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "winter", other.Current().ID)
	assert.False(t, other.AutoDetect())
}

func TestLoad_MissingAndMalformed(t *testing.T) {
	setNow(t, time.April, 1)
	ctx := context.Background()
	store := kv.NewMemory()

	s := NewSelector()
	ok, err := Load(ctx, store, s)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, StateKey, []byte("{not json")))
	ok, err = Load(ctx, store, s)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "spring", s.Current().ID)
	assert.True(t, s.AutoDetect())
}

func TestState_DoesNotCarryPalette(t *testing.T) {
	s := NewSelector()
	data, err := json.Marshal(s.State())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "palette")
}

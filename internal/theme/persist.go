package theme

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/brickworld/internal/kv"
)

// StateKey holds the persisted selector state.
const StateKey = "brickworld-theme"

// Save persists the selector's state.
func Save(ctx context.Context, store kv.Store, sel *Selector) error {
	data, err := json.Marshal(sel.State())
	if err != nil {
		return fmt.Errorf("marshaling theme state: %w", err)
	}
	if err := store.Set(ctx, StateKey, data); err != nil {
		return fmt.Errorf("saving theme state: %w", err)
	}
	return nil
}

// Load restores the selector from storage. It reports false, leaving the
// selector untouched, when nothing usable is stored. Malformed state is
// treated as absent.
func Load(ctx context.Context, store kv.Store, sel *Selector) (bool, error) {
	data, err := store.Get(ctx, StateKey)
	if err != nil {
		if kv.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("loading theme state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return false, nil
	}
	sel.Restore(st)
	return true, nil
}

// Package creations saves and restores named snapshots of the scene's blocks
// ("creations") and the current-session snapshot to a key-value medium.
//
// The adapter only reads from and writes into the scene through its public
// operations; it holds no scene state of its own.
package creations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/HendryAvila/brickworld/internal/kv"
	"github.com/HendryAvila/brickworld/internal/scene"
)

const (
	// KeyPrefix precedes the normalized name of every saved creation.
	KeyPrefix = "brickworld-creation-"
	// SessionKey holds the current-session snapshot.
	SessionKey = "brickworld-session"
)

// ErrEmptyName is returned by Save when the name is blank.
var ErrEmptyName = errors.New("creation name must not be empty")

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Creation is the persisted unit.
type Creation struct {
	Name    string              `json:"name"`
	Blocks  []scene.PlacedBlock `json:"blocks"`
	SavedAt string              `json:"savedAt"`
}

// Summary describes a saved creation without its blocks.
type Summary struct {
	Name       string `json:"name"`
	Key        string `json:"key"`
	BlockCount int    `json:"blockCount"`
	SavedAt    string `json:"savedAt"`
}

// Session is the current-session snapshot. History and delete mode
// are not stored.
type Session struct {
	Blocks            []scene.PlacedBlock `json:"blocks"`
	SelectedBlockType string              `json:"selectedBlockType"`
	SelectedColor     string              `json:"selectedColor"`
	CurrentRotation   scene.Rotation      `json:"currentRotation"`
}

// LoadStatus tags the outcome of a load.
type LoadStatus string

const (
	StatusOK         LoadStatus = "ok"
	StatusNotFound   LoadStatus = "not_found"
	StatusParseError LoadStatus = "parse_error"
)

// LoadResult is the tagged outcome of Load. Creation is set only for
// StatusOK; Reason explains a parse error.
type LoadResult struct {
	Status   LoadStatus
	Key      string
	Creation *Creation
	Reason   string
}

// OK reports whether the load succeeded.
func (r LoadResult) OK() bool {
	return r.Status == StatusOK
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize derives the storage key suffix from a display name: lowercase,
// with every run of whitespace replaced by a single underscore. Leading and
// trailing whitespace is not trimmed, so "  a" and "a" are distinct.
func Normalize(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "_")
}

// Key returns the storage key for a creation name.
func Key(name string) string {
	return KeyPrefix + Normalize(name)
}

// Adapter persists creations for one scene.
type Adapter struct {
	kv    kv.Store
	scene *scene.Store

	// sessionMu orders session writes: each save reads the scene after the
	// previous one finished, so the last write always carries the newest state.
	sessionMu sync.Mutex
}

// NewAdapter creates an Adapter over the given storage and scene.
func NewAdapter(store kv.Store, sc *scene.Store) *Adapter {
	return &Adapter{kv: store, scene: sc}
}

// Save writes the scene's current blocks under name, replacing any creation
// whose name normalizes to the same key.
func (a *Adapter) Save(ctx context.Context, name string) (*Creation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	c := &Creation{
		Name:    name,
		Blocks:  a.scene.Blocks(),
		SavedAt: timeNow().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling creation %q: %w", name, err)
	}
	if err := a.kv.Set(ctx, Key(name), data); err != nil {
		return nil, fmt.Errorf("saving creation %q: %w", name, err)
	}
	return c, nil
}

// Load reads the creation stored under name. On StatusOK the scene's blocks
// are replaced and its undo history reset; otherwise the scene is untouched.
// The error return is reserved for storage failures.
func (a *Adapter) Load(ctx context.Context, name string) (LoadResult, error) {
	res, err := a.Peek(ctx, name)
	if err != nil || !res.OK() {
		return res, err
	}
	a.scene.Restore(res.Creation.Blocks)
	return res, nil
}

// Peek reads a creation without touching the scene.
func (a *Adapter) Peek(ctx context.Context, name string) (LoadResult, error) {
	key := Key(name)
	res := LoadResult{Key: key}

	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if kv.IsNotFound(err) {
			res.Status = StatusNotFound
			return res, nil
		}
		return res, fmt.Errorf("loading creation %q: %w", name, err)
	}

	c, err := decodeCreation(data)
	if err != nil {
		res.Status = StatusParseError
		res.Reason = err.Error()
		return res, nil
	}
	res.Status = StatusOK
	res.Creation = c
	return res, nil
}

// List returns the names of every stored creation, sorted. Entries that fail
// to parse are skipped.
func (a *Adapter) List(ctx context.Context) ([]string, error) {
	summaries, err := a.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names, nil
}

// summaryReaders bounds concurrent reads in Summaries.
const summaryReaders = 8

// Summaries returns one Summary per parseable creation, ordered by key.
func (a *Adapter) Summaries(ctx context.Context) ([]Summary, error) {
	keys, err := a.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing creations: %w", err)
	}

	// One slot per key keeps key order; nil slots are skipped.
	slots := make([]*Summary, len(keys))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(summaryReaders)
	for i, key := range keys {
		eg.Go(func() error {
			data, err := a.kv.Get(egCtx, key)
			if err != nil {
				if kv.IsNotFound(err) {
					return nil // deleted between scan and read
				}
				return fmt.Errorf("reading %s: %w", key, err)
			}
			c, err := decodeCreation(data)
			if err != nil {
				return nil
			}
			slots[i] = &Summary{
				Name:       c.Name,
				Key:        key,
				BlockCount: len(c.Blocks),
				SavedAt:    c.SavedAt,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(keys))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

// Delete removes the creation stored under name. Absent names are a no-op.
func (a *Adapter) Delete(ctx context.Context, name string) error {
	if err := a.kv.Delete(ctx, Key(name)); err != nil {
		return fmt.Errorf("deleting creation %q: %w", name, err)
	}
	return nil
}

// ─── Session snapshot ───────────────────────────────────────────────────────

// SaveSession writes the blocks and selection so a restart can resume.
// Concurrent calls are serialized and each one reads the scene under the
// lock, so a slow save never overwrites a newer snapshot.
func (a *Adapter) SaveSession(ctx context.Context) error {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	sel := a.scene.Selection()
	sess := Session{
		Blocks:            a.scene.Blocks(),
		SelectedBlockType: sel.TypeID,
		SelectedColor:     sel.Color,
		CurrentRotation:   sel.Rotation,
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := a.kv.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// RestoreSession loads the session snapshot into the scene. Delete mode
// starts off and the undo history starts empty.
func (a *Adapter) RestoreSession(ctx context.Context) (LoadStatus, error) {
	data, err := a.kv.Get(ctx, SessionKey)
	if err != nil {
		if kv.IsNotFound(err) {
			return StatusNotFound, nil
		}
		return "", fmt.Errorf("loading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return StatusParseError, nil
	}
	if err := validateBlocks(sess.Blocks); err != nil {
		return StatusParseError, nil
	}

	sel := scene.DefaultSelection()
	if sess.SelectedBlockType != "" {
		sel.TypeID = sess.SelectedBlockType
	}
	if sess.SelectedColor != "" {
		sel.Color = sess.SelectedColor
	}
	if sess.CurrentRotation.Valid() {
		sel.Rotation = sess.CurrentRotation
	}

	a.scene.Restore(sess.Blocks)
	a.scene.RestoreSelection(sel)
	return StatusOK, nil
}

// ─── Decoding ───────────────────────────────────────────────────────────────

func decodeCreation(data []byte) (*Creation, error) {
	var c Creation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid creation JSON: %w", err)
	}
	if err := validateBlocks(c.Blocks); err != nil {
		return nil, err
	}
	if c.Blocks == nil {
		c.Blocks = []scene.PlacedBlock{}
	}
	return &c, nil
}

func validateBlocks(blocks []scene.PlacedBlock) error {
	for i, b := range blocks {
		if b.ID == "" {
			return fmt.Errorf("block %d has no id", i)
		}
		if !b.Rotation.Valid() {
			return fmt.Errorf("block %s has invalid rotation %d", b.ID, b.Rotation)
		}
	}
	return nil
}

package scene

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store owns the blocks, the selection and the undo history.
//
// Every mutating block operation (place, remove, clear) pushes the
// pre-mutation block slice onto the history. Slices are copy-on-write: a
// slice that has been handed to the history is never appended to again, so
// snapshots stay exact without deep copies on every push.
//
// Store is safe for concurrent use. Observers are notified after the lock
// is released, in subscription order.
type Store struct {
	mu           sync.Mutex
	blocks       []PlacedBlock
	selection    Selection
	history      [][]PlacedBlock
	historyLimit int
	newID        func() string

	obsMu     sync.Mutex
	observers []observer
	nextObs   int
}

type observer struct {
	id int
	fn func(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryLimit sets the maximum number of undo snapshots. Values below 1
// fall back to DefaultHistoryLimit.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.historyLimit = n
		}
	}
}

// WithIDGenerator replaces the block ID generator. Tests use it for
// deterministic IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithSelection sets the initial selection.
func WithSelection(sel Selection) Option {
	return func(s *Store) {
		s.selection = sel
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		blocks:       []PlacedBlock{},
		selection:    DefaultSelection(),
		historyLimit: DefaultHistoryLimit,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─── Block operations ───────────────────────────────────────────────────────

// Place appends a block built from the current selection at pos.
// Overlapping placements are allowed; the later block simply stacks.
func (s *Store) Place(pos Position) PlacedBlock {
	s.mu.Lock()
	block := PlacedBlock{
		ID:       s.newID(),
		TypeID:   s.selection.TypeID,
		Position: pos,
		Rotation: s.selection.Rotation,
		Color:    s.selection.Color,
	}
	next := make([]PlacedBlock, len(s.blocks), len(s.blocks)+1)
	copy(next, s.blocks)
	next = append(next, block)
	s.commit(next)
	count := len(s.blocks)
	s.mu.Unlock()

	placed := block
	s.notify(Event{Kind: EventPlaced, Block: &placed, BlockCount: count})
	return block
}

// Remove drops the block with the given id. A removal that matches nothing
// still records a history entry. It reports whether a block was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	next := make([]PlacedBlock, 0, len(s.blocks))
	for _, b := range s.blocks {
		if b.ID != id {
			next = append(next, b)
		}
	}
	removed := len(next) != len(s.blocks)
	s.commit(next)
	count := len(s.blocks)
	s.mu.Unlock()

	s.notify(Event{Kind: EventRemoved, BlockID: id, BlockCount: count})
	return removed
}

// RemoveAt removes the most recently placed block anchored exactly at pos
// and returns its ID. Like Remove, it records a snapshot even when no block
// is anchored there.
func (s *Store) RemoveAt(pos Position) (string, bool) {
	s.mu.Lock()
	idx := -1
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if s.blocks[i].Position == pos {
			idx = i
			break
		}
	}
	var id string
	next := make([]PlacedBlock, 0, len(s.blocks))
	for i, b := range s.blocks {
		if i == idx {
			id = b.ID
			continue
		}
		next = append(next, b)
	}
	s.commit(next)
	count := len(s.blocks)
	s.mu.Unlock()

	s.notify(Event{Kind: EventRemoved, BlockID: id, BlockCount: count})
	return id, idx >= 0
}

// Clear removes every block. It is a no-op, with no history entry, when the
// scene is already empty.
func (s *Store) Clear() bool {
	s.mu.Lock()
	if len(s.blocks) == 0 {
		s.mu.Unlock()
		return false
	}
	s.commit([]PlacedBlock{})
	s.mu.Unlock()

	s.notify(Event{Kind: EventCleared})
	return true
}

// Undo restores the blocks captured before the most recent mutation and
// drops that snapshot. The selection is never touched. It returns false
// when there is nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}
	last := len(s.history) - 1
	s.blocks = s.history[last]
	s.history[last] = nil
	s.history = s.history[:last]
	count := len(s.blocks)
	s.mu.Unlock()

	s.notify(Event{Kind: EventUndone, BlockCount: count})
	return true
}

// Restore replaces the blocks wholesale and resets the history. Loading a
// creation goes through here: past states belong to another session.
func (s *Store) Restore(blocks []PlacedBlock) {
	s.mu.Lock()
	next := make([]PlacedBlock, len(blocks))
	copy(next, blocks)
	s.blocks = next
	s.history = nil
	count := len(next)
	s.mu.Unlock()

	s.notify(Event{Kind: EventRestored, BlockCount: count})
}

// commit pushes the current blocks onto the history, evicting the oldest
// snapshot past the limit, and installs next. Caller holds s.mu.
func (s *Store) commit(next []PlacedBlock) {
	s.history = append(s.history, s.blocks)
	if over := len(s.history) - s.historyLimit; over > 0 {
		trimmed := make([][]PlacedBlock, s.historyLimit)
		copy(trimmed, s.history[over:])
		s.history = trimmed
	}
	s.blocks = next
}

// ─── Selection ──────────────────────────────────────────────────────────────

// SetSelectedType selects a block type and leaves delete mode.
func (s *Store) SetSelectedType(typeID string) {
	s.updateSelection(func(sel *Selection) {
		sel.TypeID = typeID
		sel.DeleteMode = false
	})
}

// SetSelectedColor selects a color. The value is accepted as given.
func (s *Store) SetSelectedColor(color string) {
	s.updateSelection(func(sel *Selection) {
		sel.Color = color
	})
}

// Rotate advances the pending rotation by a quarter turn and returns it.
func (s *Store) Rotate() Rotation {
	sel := s.updateSelection(func(sel *Selection) {
		sel.Rotation = sel.Rotation.Next()
	})
	return sel.Rotation
}

// ToggleDeleteMode flips delete mode and returns the new value. The selected
// block type is kept so leaving delete mode resumes placement unchanged.
func (s *Store) ToggleDeleteMode() bool {
	sel := s.updateSelection(func(sel *Selection) {
		sel.DeleteMode = !sel.DeleteMode
	})
	return sel.DeleteMode
}

// RestoreSelection replaces the whole selection, e.g. from a saved session.
func (s *Store) RestoreSelection(next Selection) {
	s.updateSelection(func(sel *Selection) {
		*sel = next
	})
}

func (s *Store) updateSelection(fn func(*Selection)) Selection {
	s.mu.Lock()
	fn(&s.selection)
	sel := s.selection
	count := len(s.blocks)
	s.mu.Unlock()

	s.notify(Event{Kind: EventSelection, Selection: sel, BlockCount: count})
	return sel
}

// ─── Read access ────────────────────────────────────────────────────────────

// Blocks returns a copy of the placed blocks in placement order.
func (s *Store) Blocks() []PlacedBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PlacedBlock, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Block returns the block with the given id.
func (s *Store) Block(id string) (PlacedBlock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.blocks {
		if b.ID == id {
			return b, true
		}
	}
	return PlacedBlock{}, false
}

// Selection returns the current tool selection.
func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// History returns copies of the undo snapshots, oldest first.
func (s *Store) History() [][]PlacedBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]PlacedBlock, len(s.history))
	for i, snap := range s.history {
		out[i] = make([]PlacedBlock, len(snap))
		copy(out[i], snap)
	}
	return out
}

// HistoryLen returns the number of undo snapshots held.
func (s *Store) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// HistoryLimit returns the configured history capacity.
func (s *Store) HistoryLimit() int {
	return s.historyLimit
}

// ─── Change notification ────────────────────────────────────────────────────

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// watchBuffer is how many events a Watch channel holds before new events
// are dropped for that reader.
const watchBuffer = 64

// Watch streams events on a channel until ctx is done, then closes it.
// Readers that fall more than watchBuffer events behind miss events.
func (s *Store) Watch(ctx context.Context) <-chan Event {
	ch := make(chan Event, watchBuffer)

	var mu sync.Mutex
	closed := false
	cancel := s.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
		}
	})

	go func() {
		<-ctx.Done()
		cancel()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}

func (s *Store) notify(e Event) {
	s.obsMu.Lock()
	obs := make([]observer, len(s.observers))
	copy(obs, s.observers)
	s.obsMu.Unlock()

	for _, o := range obs {
		o.fn(e)
	}
}

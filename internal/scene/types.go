// Package scene is the single source of truth for what is built: the placed
// blocks, the current tool selection, and a bounded undo history.
//
// The Store is an explicitly owned object. Collaborators (MCP tools, the
// session autosaver, renderers) receive a *Store and learn about changes
// through Subscribe or Watch rather than polling shared globals.
package scene

import (
	"fmt"

	"github.com/HendryAvila/brickworld/internal/catalog"
)

// DefaultHistoryLimit caps the number of undo snapshots kept.
const DefaultHistoryLimit = 50

// DefaultColor is the color selected when a fresh scene starts.
const DefaultColor = "#C91A09"

// Position is a point on the discrete build grid: x, y (up), z.
type Position [3]int

// X returns the x coordinate.
func (p Position) X() int { return p[0] }

// Y returns the vertical coordinate.
func (p Position) Y() int { return p[1] }

// Z returns the z coordinate.
func (p Position) Z() int { return p[2] }

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p[0], p[1], p[2])
}

// Rotation is a quarter-turn angle in degrees around the vertical axis.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// Valid reports whether r is one of 0, 90, 180 or 270.
func (r Rotation) Valid() bool {
	switch r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return true
	}
	return false
}

// Next returns the rotation one quarter turn clockwise, wrapping 270 to 0.
func (r Rotation) Next() Rotation {
	return (r + 90) % 360
}

// ParseRotation converts degrees into a Rotation, rejecting anything that is
// not a quarter turn.
func ParseRotation(deg int) (Rotation, error) {
	r := Rotation(deg)
	if !r.Valid() {
		return 0, fmt.Errorf("invalid rotation %d: must be one of 0, 90, 180, 270", deg)
	}
	return r, nil
}

// PlacedBlock is one block in the scene. It is never mutated after
// placement; edits are modelled as remove + place.
type PlacedBlock struct {
	ID       string   `json:"id"`
	TypeID   string   `json:"typeId"`
	Position Position `json:"position"`
	Rotation Rotation `json:"rotation"`
	Color    string   `json:"color"`
}

// Selection is the current tool configuration.
type Selection struct {
	TypeID     string   `json:"typeId"`
	Color      string   `json:"color"`
	Rotation   Rotation `json:"rotation"`
	DeleteMode bool     `json:"deleteMode"`
}

// DefaultSelection is the selection a fresh scene starts with.
func DefaultSelection() Selection {
	return Selection{
		TypeID:   catalog.DefaultTypeID,
		Color:    DefaultColor,
		Rotation: Rotation0,
	}
}

// EventKind names what changed in the store.
type EventKind string

const (
	EventPlaced    EventKind = "placed"
	EventRemoved   EventKind = "removed"
	EventCleared   EventKind = "cleared"
	EventUndone    EventKind = "undone"
	EventRestored  EventKind = "restored"
	EventSelection EventKind = "selection"
)

// Event describes a change. Block is set for placements, BlockID for
// removals. BlockCount is the number of blocks after the change.
type Event struct {
	Kind       EventKind
	Block      *PlacedBlock
	BlockID    string
	BlockCount int
	Selection  Selection
}

// Mutates reports whether the event changed the block collection.
func (e Event) Mutates() bool {
	return e.Kind != EventSelection
}

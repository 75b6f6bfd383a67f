package game

import (
	"physics2d/internal/physics"

	"github.com/pkg/errors"
)

const maxUndoStack = 50

// UndoActionType represents the type of action that can be undone
type UndoActionType int

const (
	UndoSpawn UndoActionType = iota
	UndoRemove
)

// UndoState captures enough to reverse one sandbox edit.
type UndoState struct {
	Type   UndoActionType
	Handle physics.Handle  // spawned body
	Def    physics.BodyDef // removed body
}

type UndoStack struct {
	states []UndoState
}

func (u *UndoStack) push(s UndoState) {
	u.states = append(u.states, s)
	if len(u.states) > maxUndoStack {
		u.states = u.states[1:]
	}
}

func (u *UndoStack) PushSpawn(h physics.Handle) {
	u.push(UndoState{Type: UndoSpawn, Handle: h})
}

func (u *UndoStack) PushRemove(def physics.BodyDef) {
	u.push(UndoState{Type: UndoRemove, Def: def})
}

// Undo reverses the most recent edit. Spawned bodies that have since been
// removed some other way are skipped.
func (u *UndoStack) Undo(w *physics.World) error {
	for len(u.states) > 0 {
		s := u.states[len(u.states)-1]
		u.states = u.states[:len(u.states)-1]

		switch s.Type {
		case UndoSpawn:
			err := w.RemoveBody(s.Handle)
			if errors.Is(err, physics.ErrStaleHandle) {
				continue
			}
			return err
		case UndoRemove:
			_, err := w.AddBody(s.Def)
			return err
		}
	}
	return nil
}

func (u *UndoStack) Len() int { return len(u.states) }

func (u *UndoStack) Clear() { u.states = u.states[:0] }

package board

import (
	"context"

	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/reorder"
)

// BeginDrag picks up a task or column. Only one drag may be active.
func (s *Store) BeginDrag(item reorder.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Start(s.boardLocked(), item)
}

// Dragging returns the item being dragged, if any
func (s *Store) Dragging() (reorder.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Active()
}

// DragOver hovers the dragged item over target. Each effective task hover
// is written immediately so every session sees the board reflow. A hover
// that fails is forgotten, so hovering the same target again retries it.
func (s *Store) DragOver(ctx context.Context, target reorder.Item) error {
	err := s.commitWith(ctx, func() (realtime.Updates, error) {
		change, err := s.drag.Over(s.boardLocked(), target)
		if err != nil {
			return nil, err
		}
		return change.Updates(s.uid), nil
	})
	if err != nil {
		s.DragLeave()
	}
	return err
}

// DragLeave clears the hover target without moving anything
func (s *Store) DragLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.Leave()
}

// EndDrag drops the dragged item on target, or outside any target when nil.
// A column drop writes every changed column order in one batch.
func (s *Store) EndDrag(ctx context.Context, target *reorder.Item) error {
	return s.commitWith(ctx, func() (realtime.Updates, error) {
		change, err := s.drag.End(s.boardLocked(), target)
		if err != nil {
			return nil, err
		}
		return change.Updates(s.uid), nil
	})
}

// CancelDrag abandons the active drag
func (s *Store) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.Cancel()
}

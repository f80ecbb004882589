package board

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/types"
)

// validateTitleLocked checks a column title against the other columns.
// exclude is the column being renamed, if any.
func (s *Store) validateTitleLocked(title string, exclude types.ColumnID) error {
	if strings.TrimSpace(title) == "" {
		return &rejection{MsgEmptyTitle, ErrEmptyTitle}
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return &rejection{MsgTitleTooLong, ErrTitleTooLong}
	}
	for _, col := range s.columns {
		if col.ID != exclude && col.Title == title {
			return &rejection{MsgDuplicateTitle, fmt.Errorf("%w: %q", ErrDuplicateTitle, title)}
		}
	}
	return nil
}

// CreateColumn appends a column titled title
func (s *Store) CreateColumn(ctx context.Context, title string) (models.Column, error) {
	title = strings.TrimSpace(title)
	key := s.db.NewKey()

	var col models.Column
	err := s.commitWith(ctx, func() (realtime.Updates, error) {
		if err := s.validateTitleLocked(title, ""); err != nil {
			return nil, err
		}
		col = models.Column{
			ID:    types.ColumnID(key),
			Title: title,
			Order: len(s.columns),
		}
		return realtime.Updates{
			realtime.RecordPath(s.uid, realtime.Columns, key): col,
		}, nil
	})
	if err != nil {
		return models.Column{}, err
	}
	return col, nil
}

// UpdateColumn renames a column. Renaming to the current title does nothing.
func (s *Store) UpdateColumn(ctx context.Context, id types.ColumnID, title string) error {
	title = strings.TrimSpace(title)
	return s.commitWith(ctx, func() (realtime.Updates, error) {
		col, ok := s.boardLocked().Column(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, id)
		}
		if title == col.Title {
			return nil, nil
		}
		if err := s.validateTitleLocked(title, id); err != nil {
			return nil, err
		}
		return realtime.Updates{
			realtime.FieldPath(s.uid, realtime.Columns, string(id), "title"): title,
		}, nil
	})
}

// DeleteColumn removes a non-default column together with its tasks and
// their comments in one atomic update. Remaining columns are renumbered.
func (s *Store) DeleteColumn(ctx context.Context, id types.ColumnID) error {
	col, ok := s.Column(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	if col.IsDefault {
		return s.warn(MsgDefaultColumn, ErrDefaultColumn)
	}

	// Read tasks fresh so tasks created elsewhere are not orphaned
	updates, err := s.taskRemovals(ctx, func(t models.Task) bool { return t.ColumnID == id })
	if err != nil {
		return err
	}
	updates[realtime.RecordPath(s.uid, realtime.Columns, string(id))] = nil

	order := 0
	for _, c := range s.Columns() {
		if c.ID == id {
			continue
		}
		if c.Order != order {
			updates[realtime.FieldPath(s.uid, realtime.Columns, string(c.ID), "order")] = order
		}
		order++
	}

	return s.commit(ctx, updates)
}

// taskRemovals reads tasks and comments from the store and returns record
// deletions for every task matching match, plus the comments on them.
func (s *Store) taskRemovals(ctx context.Context, match func(models.Task) bool) (realtime.Updates, error) {
	taskSnap, err := s.db.Get(ctx, realtime.CollectionPath(s.uid, realtime.Tasks))
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	tasks, err := realtime.DecodeAll[models.Task](taskSnap)
	if err != nil {
		return nil, err
	}

	updates := make(realtime.Updates)
	doomed := make(map[types.TaskID]bool)
	for _, t := range tasks {
		if match(t) {
			doomed[t.ID] = true
			updates[realtime.RecordPath(s.uid, realtime.Tasks, string(t.ID))] = nil
		}
	}
	if len(doomed) == 0 {
		return updates, nil
	}

	commentSnap, err := s.db.Get(ctx, realtime.CollectionPath(s.uid, realtime.Comments))
	if err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	comments, err := realtime.DecodeAll[models.Comment](commentSnap)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		if doomed[c.TaskID] {
			updates[realtime.RecordPath(s.uid, realtime.Comments, string(c.ID))] = nil
		}
	}
	return updates, nil
}

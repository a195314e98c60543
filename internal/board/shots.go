package board

import (
	"context"
	"errors"
	"fmt"

	"brickshot/internal/domain/access"
	"brickshot/internal/domain/numbering"
	"brickshot/internal/domain/ordering"
	ds "brickshot/internal/domain/shotlist"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ShotRow is one line of a scene's shot table.
type ShotRow struct {
	ds.Shot
	Index       int    `json:"index"`
	Number      int    `json:"number"`
	Code        string `json:"code"`
	CanMoveUp   bool   `json:"can_move_up"`
	CanMoveDown bool   `json:"can_move_down"`
}

type Board struct {
	Scene SceneView `json:"scene"`
	Shots []ShotRow `json:"shots"`
}

type NewShot struct {
	AtIndex  *int    `json:"at_index"`
	Location *string `json:"location"`
}

// ShotPatch lists the shot fields an update may touch. LockedNumber and
// Location distinguish "leave alone" from "clear".
type ShotPatch struct {
	Status       *ds.Status          `json:"status,omitempty"`
	LockedNumber ds.Nullable[int]    `json:"locked_number,omitzero"`
	Description  *string             `json:"description,omitempty"`
	Location     ds.Nullable[string] `json:"location,omitzero"`
	Notes        *string             `json:"notes,omitempty"`
}

// buildBoard numbers the scene's shots from the stored order. Ids in the
// order that no longer resolve are skipped.
func buildBoard(tx *gorm.DB, scene ds.Scene) (*Board, error) {
	view, err := viewOf(tx, scene)
	if err != nil {
		return nil, err
	}

	var shots []ds.Shot
	if err := tx.Where("scene_id = ?", scene.ID).Order("created_at ASC, id ASC").Find(&shots).Error; err != nil {
		return nil, err
	}
	ordered := ordering.Resolve(scene.ShotOrder, shots, func(sh ds.Shot) string { return sh.ID })

	items := make([]numbering.Item, 0, len(ordered))
	for _, sh := range ordered {
		items = append(items, numbering.Item{ID: sh.ID, LockedNumber: sh.LockedNumber})
	}
	numbers := numbering.AssignNumbers(items)

	rows := make([]ShotRow, 0, len(ordered))
	for i, sh := range ordered {
		n := numbers[sh.ID]
		rows = append(rows, ShotRow{
			Shot:        sh,
			Index:       i,
			Number:      n,
			Code:        numbering.FormatCode(view.Number, n),
			CanMoveUp:   i > 0,
			CanMoveDown: i < len(scene.ShotOrder)-1,
		})
	}
	return &Board{Scene: view, Shots: rows}, nil
}

func (b *Board) row(shotID string) (ShotRow, error) {
	for _, r := range b.Shots {
		if r.ID == shotID {
			return r, nil
		}
	}
	return ShotRow{}, fmt.Errorf("shot %s: %w", shotID, ds.ErrNotFound)
}

// ListShots returns the scene's shot table. statuses, when non-empty, hides
// rows with other statuses; numbering always covers the whole scene.
func (s *Service) ListShots(ctx context.Context, caller access.Caller, sceneID string, statuses []ds.Status) (*Board, error) {
	return access.WithPermission(ctx, s.db, caller, access.EditScene(sceneID), func(g access.Grant) (*Board, error) {
		b, err := buildBoard(s.db.WithContext(ctx), *g.Scene)
		if err != nil {
			return nil, err
		}
		if len(statuses) == 0 {
			return b, nil
		}
		keep := make(map[ds.Status]bool, len(statuses))
		for _, st := range statuses {
			keep[st] = true
		}
		filtered := b.Shots[:0]
		for _, r := range b.Shots {
			if keep[r.Status] {
				filtered = append(filtered, r)
			}
		}
		b.Shots = filtered
		return b, nil
	})
}

// CreateShot inserts a new shot into the scene at AtIndex (clamped, default
// end) and stores the shot and the new order in one transaction.
func (s *Service) CreateShot(ctx context.Context, caller access.Caller, sceneID string, in NewShot) (string, error) {
	id, err := inTx(ctx, s.db, func(tx *gorm.DB) (string, error) {
		return access.WithPermission(ctx, tx, caller, access.EditScene(sceneID), func(g access.Grant) (string, error) {
			var sc ds.Scene
			if err := forUpdate(tx, &sc, sceneID); err != nil {
				return "", err
			}

			location := ""
			if in.Location != nil {
				location = *in.Location
			}
			sh := ds.Shot{
				SceneID:     sceneID,
				Status:      ds.StatusDefault,
				Location:    &location,
				Attachments: ordering.OrderList{},
			}
			if err := tx.Create(&sh).Error; err != nil {
				return "", err
			}
			order := sc.ShotOrder.InsertAt(sh.ID, in.AtIndex)
			if err := tx.Model(&ds.Scene{}).Where("id = ?", sceneID).Update("shot_order", order).Error; err != nil {
				return "", err
			}
			s.log.Debug("shot created", zap.String("shot_id", sh.ID), zap.String("scene_id", sceneID))
			return sh.ID, nil
		})
	})
	committed("create_shot", err)
	return id, err
}

func (s *Service) UpdateShot(ctx context.Context, caller access.Caller, shotID string, patch ShotPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return ds.ErrInvalidStatus
	}
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		return access.WithPermission(ctx, tx, caller, access.EditShot(shotID), func(g access.Grant) (struct{}, error) {
			updates := map[string]interface{}{}
			if patch.Status != nil {
				updates["status"] = *patch.Status
			}
			if patch.LockedNumber.Set {
				updates["locked_number"] = patch.LockedNumber.Value
			}
			if patch.Description != nil {
				updates["description"] = *patch.Description
			}
			if patch.Location.Set {
				updates["location"] = patch.Location.Value
			}
			if patch.Notes != nil {
				updates["notes"] = *patch.Notes
			}
			if len(updates) == 0 {
				return struct{}{}, nil
			}
			return struct{}{}, tx.Model(&ds.Shot{}).Where("id = ?", shotID).Updates(updates).Error
		})
	})
	committed("update_shot", err)
	return err
}

// DeleteShot removes the shot and drops it from its scene's order. Deleting
// a shot that does not exist is a no-op.
func (s *Service) DeleteShot(ctx context.Context, caller access.Caller, shotID string) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		return access.WithPermission(ctx, tx, caller, access.EditShot(shotID), func(g access.Grant) (struct{}, error) {
			var sc ds.Scene
			err := forUpdate(tx, &sc, g.Shot.SceneID)
			if err != nil && !errors.Is(err, ds.ErrNotFound) {
				return struct{}{}, err
			}
			if err == nil {
				if order, removed := sc.ShotOrder.RemoveIfPresent(shotID); removed {
					if err := tx.Model(&ds.Scene{}).Where("id = ?", sc.ID).Update("shot_order", order).Error; err != nil {
						return struct{}{}, err
					}
				}
			}
			if err := tx.Delete(&ds.Shot{}, "id = ?", shotID).Error; err != nil {
				return struct{}{}, err
			}
			s.log.Debug("shot deleted", zap.String("shot_id", shotID))
			return struct{}{}, nil
		})
	})
	committed("delete_shot", err)
	return ignoreNotFound(err)
}

// CycleStatus performs the primary status action. Moving an unpinned shot
// into wip or animated pins its current number in the same write.
func (s *Service) CycleStatus(ctx context.Context, caller access.Caller, shotID string) (*ShotRow, error) {
	return s.editWithBoard(ctx, caller, shotID, "cycle_status", func(row ShotRow) map[string]interface{} {
		t := ds.Cycle(row.Status, row.LockedNumber, row.Number)
		updates := map[string]interface{}{"status": t.Status}
		if t.Pin != nil {
			updates["locked_number"] = *t.Pin
		}
		return updates
	})
}

// ToggleUnsure performs the secondary status action. It never pins.
func (s *Service) ToggleUnsure(ctx context.Context, caller access.Caller, shotID string) (*ShotRow, error) {
	return s.editWithBoard(ctx, caller, shotID, "toggle_unsure", func(row ShotRow) map[string]interface{} {
		return map[string]interface{}{"status": row.Status.ToggleUnsure()}
	})
}

// LockShotCode pins the shot at the number it currently shows, if it is not
// pinned already, and returns the row with its code.
func (s *Service) LockShotCode(ctx context.Context, caller access.Caller, shotID string) (*ShotRow, error) {
	return s.editWithBoard(ctx, caller, shotID, "lock_code", func(row ShotRow) map[string]interface{} {
		if row.LockedNumber != nil {
			return nil
		}
		return map[string]interface{}{"locked_number": row.Number}
	})
}

// EditShotCode replaces the pin of an already pinned shot. Blank input
// unpins it; the shot then takes its auto number again.
func (s *Service) EditShotCode(ctx context.Context, caller access.Caller, shotID, input string) (*ShotRow, error) {
	pin, err := numbering.ParsePinnedNumber(input)
	if err != nil {
		return nil, err
	}
	var notPinned bool
	row, err := s.editWithBoard(ctx, caller, shotID, "edit_code", func(row ShotRow) map[string]interface{} {
		if row.LockedNumber == nil {
			notPinned = true
			return nil
		}
		if pin != nil && *pin == *row.LockedNumber {
			return nil
		}
		return map[string]interface{}{"locked_number": pin}
	})
	if err != nil {
		return nil, err
	}
	if notPinned {
		return nil, ds.ErrNotPinned
	}
	return row, nil
}

// editWithBoard computes the shot's row under a lock on its scene, applies
// the updates returned by edit, and returns the row as renumbered afterwards.
func (s *Service) editWithBoard(ctx context.Context, caller access.Caller, shotID, op string, edit func(ShotRow) map[string]interface{}) (*ShotRow, error) {
	var wrote bool
	row, err := inTx(ctx, s.db, func(tx *gorm.DB) (*ShotRow, error) {
		return access.WithPermission(ctx, tx, caller, access.EditShot(shotID), func(g access.Grant) (*ShotRow, error) {
			var sc ds.Scene
			if err := forUpdate(tx, &sc, g.Shot.SceneID); err != nil {
				return nil, err
			}
			b, err := buildBoard(tx, sc)
			if err != nil {
				return nil, err
			}
			row, err := b.row(shotID)
			if err != nil {
				return nil, err
			}
			updates := edit(row)
			if len(updates) == 0 {
				return &row, nil
			}
			if err := tx.Model(&ds.Shot{}).Where("id = ?", shotID).Updates(updates).Error; err != nil {
				return nil, err
			}
			wrote = true
			s.log.Debug("shot edited", zap.String("shot_id", shotID), zap.Any("updates", updates))

			b, err = buildBoard(tx, sc)
			if err != nil {
				return nil, err
			}
			row, err = b.row(shotID)
			if err != nil {
				return nil, err
			}
			return &row, nil
		})
	})
	if wrote {
		committed(op, err)
	}
	return row, err
}

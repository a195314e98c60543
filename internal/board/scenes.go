package board

import (
	"context"
	"fmt"

	"brickshot/internal/domain/access"
	"brickshot/internal/domain/numbering"
	"brickshot/internal/domain/ordering"
	ds "brickshot/internal/domain/shotlist"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SceneView is a scene together with its position in the project and the
// number derived from it.
type SceneView struct {
	ds.Scene
	Index  int `json:"index"`
	Number int `json:"number"`
}

// ScenePatch lists the scene fields an update may touch. Unset fields are
// left alone; LockedNumber set to null unpins the scene.
type ScenePatch struct {
	LockedNumber ds.Nullable[int]    `json:"locked_number,omitzero"`
	Description  *string             `json:"description,omitempty"`
	ShotOrder    *ordering.OrderList `json:"shot_order,omitempty"`
}

func (s *Service) CreateScene(ctx context.Context, caller access.Caller, projectID, description string) (*ds.Scene, error) {
	sc, err := inTx(ctx, s.db, func(tx *gorm.DB) (*ds.Scene, error) {
		return access.WithPermission(ctx, tx, caller, access.EditProject(projectID), func(g access.Grant) (*ds.Scene, error) {
			sc := ds.Scene{ProjectID: projectID, Description: description, ShotOrder: ordering.OrderList{}}
			if err := tx.Create(&sc).Error; err != nil {
				return nil, err
			}
			s.log.Debug("scene created", zap.String("scene_id", sc.ID), zap.String("project_id", projectID))
			return &sc, nil
		})
	})
	committed("create_scene", err)
	return sc, err
}

// projectScenes loads a project's scenes in creation order, which is the
// order scene numbers are derived from.
func projectScenes(tx *gorm.DB, projectID string) ([]ds.Scene, error) {
	var scenes []ds.Scene
	err := tx.Where("project_id = ?", projectID).Order("created_at ASC, id ASC").Find(&scenes).Error
	return scenes, err
}

func sceneViews(scenes []ds.Scene) []SceneView {
	out := make([]SceneView, 0, len(scenes))
	for i, sc := range scenes {
		out = append(out, SceneView{Scene: sc, Index: i, Number: numbering.SceneNumber(sc.LockedNumber, i)})
	}
	return out
}

func viewOf(tx *gorm.DB, scene ds.Scene) (SceneView, error) {
	scenes, err := projectScenes(tx, scene.ProjectID)
	if err != nil {
		return SceneView{}, err
	}
	for _, v := range sceneViews(scenes) {
		if v.ID == scene.ID {
			v.Scene = scene
			return v, nil
		}
	}
	return SceneView{}, fmt.Errorf("scene %s missing from project %s: %w", scene.ID, scene.ProjectID, ds.ErrNotFound)
}

func (s *Service) ListScenes(ctx context.Context, caller access.Caller, projectID string) ([]SceneView, error) {
	return access.WithPermission(ctx, s.db, caller, access.EditProject(projectID), func(g access.Grant) ([]SceneView, error) {
		scenes, err := projectScenes(s.db.WithContext(ctx), projectID)
		if err != nil {
			return nil, err
		}
		return sceneViews(scenes), nil
	})
}

func (s *Service) GetScene(ctx context.Context, caller access.Caller, sceneID string) (*SceneView, error) {
	return access.WithPermission(ctx, s.db, caller, access.EditScene(sceneID), func(g access.Grant) (*SceneView, error) {
		v, err := viewOf(s.db.WithContext(ctx), *g.Scene)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
}

func (s *Service) UpdateScene(ctx context.Context, caller access.Caller, sceneID string, patch ScenePatch) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		return access.WithPermission(ctx, tx, caller, access.EditScene(sceneID), func(g access.Grant) (struct{}, error) {
			var sc ds.Scene
			if err := forUpdate(tx, &sc, sceneID); err != nil {
				return struct{}{}, err
			}
			updates := map[string]interface{}{}
			if patch.LockedNumber.Set {
				updates["locked_number"] = patch.LockedNumber.Value
			}
			if patch.Description != nil {
				updates["description"] = *patch.Description
			}
			if patch.ShotOrder != nil {
				updates["shot_order"] = patch.ShotOrder.Clone()
			}
			if len(updates) == 0 {
				return struct{}{}, nil
			}
			return struct{}{}, tx.Model(&ds.Scene{}).Where("id = ?", sceneID).Updates(updates).Error
		})
	})
	committed("update_scene", err)
	return err
}

// DeleteScene removes the scene and its shots. A missing scene is a no-op.
func (s *Service) DeleteScene(ctx context.Context, caller access.Caller, sceneID string) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		return access.WithPermission(ctx, tx, caller, access.EditScene(sceneID), func(g access.Grant) (struct{}, error) {
			if err := tx.Where("scene_id = ?", sceneID).Delete(&ds.Shot{}).Error; err != nil {
				return struct{}{}, err
			}
			if err := tx.Delete(&ds.Scene{}, "id = ?", sceneID).Error; err != nil {
				return struct{}{}, err
			}
			s.log.Info("scene deleted", zap.String("scene_id", sceneID))
			return struct{}{}, nil
		})
	})
	committed("delete_scene", err)
	return ignoreNotFound(err)
}

// SwapShots exchanges two positions of the scene's shot order. Out of range
// positions fail with ordering.ErrIndexOutOfRange and change nothing.
func (s *Service) SwapShots(ctx context.Context, caller access.Caller, sceneID string, i, j int) (ordering.OrderList, error) {
	out, err := inTx(ctx, s.db, func(tx *gorm.DB) (ordering.OrderList, error) {
		return access.WithPermission(ctx, tx, caller, access.EditScene(sceneID), func(g access.Grant) (ordering.OrderList, error) {
			var sc ds.Scene
			if err := forUpdate(tx, &sc, sceneID); err != nil {
				return nil, err
			}
			order, err := sc.ShotOrder.Swap(i, j)
			if err != nil {
				return nil, err
			}
			if err := tx.Model(&ds.Scene{}).Where("id = ?", sceneID).Update("shot_order", order).Error; err != nil {
				return nil, err
			}
			return order, nil
		})
	})
	committed("swap_shots", err)
	return out, err
}

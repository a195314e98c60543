package board

import (
	"context"
	"sort"
	"strings"

	"brickshot/internal/domain/access"
	ds "brickshot/internal/domain/shotlist"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectDetails struct {
	ds.Project
	ScenesCount int64 `json:"scenes_count"`
}

func (s *Service) CreateProject(ctx context.Context, caller access.Caller, name string) (*ds.Project, error) {
	p, err := inTx(ctx, s.db, func(tx *gorm.DB) (*ds.Project, error) {
		return access.WithPermission(ctx, tx, caller, access.IsLoggedIn, func(g access.Grant) (*ds.Project, error) {
			name = strings.TrimSpace(name)
			if name == "" {
				name = ds.DefaultProjectName
			}
			p := ds.Project{OwnerID: g.UserID, Name: name}
			if err := tx.Create(&p).Error; err != nil {
				return nil, err
			}
			s.log.Info("project created", zap.String("project_id", p.ID), zap.Uint("owner", g.UserID))
			return &p, nil
		})
	})
	committed("create_project", err)
	return p, err
}

// ListProjects returns the caller's projects, most recently opened first.
// A non-empty search keeps projects whose name contains it.
func (s *Service) ListProjects(ctx context.Context, caller access.Caller, search string) ([]ds.Project, error) {
	return access.WithPermission(ctx, s.db, caller, access.IsLoggedIn, func(g access.Grant) ([]ds.Project, error) {
		var projects []ds.Project
		if err := s.db.WithContext(ctx).Where("owner_id = ?", g.UserID).Find(&projects).Error; err != nil {
			return nil, err
		}
		out := projects[:0]
		for _, p := range projects {
			if search == "" || strings.Contains(p.Name, search) {
				out = append(out, p)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RecentAt().After(out[j].RecentAt())
		})
		return out, nil
	})
}

func (s *Service) GetProjectDetails(ctx context.Context, caller access.Caller, projectID string) (*ProjectDetails, error) {
	return access.WithPermission(ctx, s.db, caller, access.EditProject(projectID), func(g access.Grant) (*ProjectDetails, error) {
		var count int64
		if err := s.db.WithContext(ctx).Model(&ds.Scene{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return nil, err
		}
		return &ProjectDetails{Project: *g.Project, ScenesCount: count}, nil
	})
}

func (s *Service) RenameProject(ctx context.Context, caller access.Caller, projectID, name string) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		return access.WithPermission(ctx, tx, caller, access.EditProject(projectID), func(g access.Grant) (struct{}, error) {
			return struct{}{}, tx.Model(&ds.Project{}).Where("id = ?", projectID).Update("name", name).Error
		})
	})
	committed("rename_project", err)
	return err
}

// OpenProject records that the caller opened the project just now.
func (s *Service) OpenProject(ctx context.Context, caller access.Caller, projectID string) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		return access.WithPermission(ctx, tx, caller, access.EditProject(projectID), func(g access.Grant) (struct{}, error) {
			return struct{}{}, tx.Model(&ds.Project{}).Where("id = ?", projectID).Update("last_opened_at", s.now()).Error
		})
	})
	committed("open_project", err)
	return err
}

// DeleteProject removes the project with all its scenes and shots. Deleting
// a project that does not exist is not an error.
func (s *Service) DeleteProject(ctx context.Context, caller access.Caller, projectID string) error {
	_, err := inTx(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		return access.WithPermission(ctx, tx, caller, access.EditProject(projectID), func(g access.Grant) (struct{}, error) {
			sceneIDs := tx.Model(&ds.Scene{}).Select("id").Where("project_id = ?", projectID)
			if err := tx.Where("scene_id IN (?)", sceneIDs).Delete(&ds.Shot{}).Error; err != nil {
				return struct{}{}, err
			}
			if err := tx.Where("project_id = ?", projectID).Delete(&ds.Scene{}).Error; err != nil {
				return struct{}{}, err
			}
			if err := tx.Delete(&ds.Project{}, "id = ?", projectID).Error; err != nil {
				return struct{}{}, err
			}
			s.log.Info("project deleted", zap.String("project_id", projectID))
			return struct{}{}, nil
		})
	})
	committed("delete_project", err)
	return ignoreNotFound(err)
}

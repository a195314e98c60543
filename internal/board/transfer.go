package board

import (
	"context"
	"strings"
	"time"

	"brickshot/internal/domain/access"
	"brickshot/internal/domain/ordering"
	ds "brickshot/internal/domain/shotlist"
	"brickshot/internal/domain/transfer"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExportProject builds the portable document for a project. Scenes keep
// their project order and shots their scene order; stale order entries are
// dropped.
func (s *Service) ExportProject(ctx context.Context, caller access.Caller, projectID string) (*transfer.Project, error) {
	return access.WithPermission(ctx, s.db, caller, access.EditProject(projectID), func(g access.Grant) (*transfer.Project, error) {
		db := s.db.WithContext(ctx)
		scenes, err := projectScenes(db, projectID)
		if err != nil {
			return nil, err
		}

		name := g.Project.Name
		doc := &transfer.Project{ID: g.Project.ID, Name: &name, Scenes: make([]transfer.Scene, 0, len(scenes))}
		for _, sc := range scenes {
			var shots []ds.Shot
			if err := db.Where("scene_id = ?", sc.ID).Order("created_at ASC, id ASC").Find(&shots).Error; err != nil {
				return nil, err
			}
			ordered := ordering.Resolve(sc.ShotOrder, shots, func(sh ds.Shot) string { return sh.ID })

			out := transfer.Scene{
				ID:           sc.ID,
				LockedNumber: sc.LockedNumber,
				Description:  sc.Description,
				Shots:        make([]transfer.Shot, 0, len(ordered)),
			}
			for _, sh := range ordered {
				out.Shots = append(out.Shots, transfer.Shot{
					ID:           sh.ID,
					Status:       sh.Status,
					LockedNumber: sh.LockedNumber,
					Description:  sh.Description,
					Location:     sh.Location,
					Notes:        sh.Notes,
				})
			}
			doc.Scenes = append(doc.Scenes, out)
		}
		return doc, nil
	})
}

// ImportProject creates a new project owned by the caller from doc. Ids in
// the document are ignored. Attachments are not part of the format.
func (s *Service) ImportProject(ctx context.Context, caller access.Caller, doc *transfer.Project) (*ds.Project, error) {
	p, err := inTx(ctx, s.db, func(tx *gorm.DB) (*ds.Project, error) {
		return access.WithPermission(ctx, tx, caller, access.IsLoggedIn, func(g access.Grant) (*ds.Project, error) {
			if err := transfer.Validate(doc); err != nil {
				return nil, err
			}
			name := ds.DefaultProjectName
			if doc.Name != nil && strings.TrimSpace(*doc.Name) != "" {
				name = *doc.Name
			}
			p := ds.Project{OwnerID: g.UserID, Name: name}
			if err := tx.Create(&p).Error; err != nil {
				return nil, err
			}

			// Scene and shot order follow creation time, so each record is
			// stamped one millisecond after the previous one.
			base := s.now()
			stamp := func(i int) time.Time { return base.Add(time.Duration(i) * time.Millisecond) }

			for i, in := range doc.Scenes {
				sc := ds.Scene{
					ProjectID:    p.ID,
					LockedNumber: in.LockedNumber,
					Description:  in.Description,
					ShotOrder:    ordering.OrderList{},
					CreatedAt:    stamp(i),
				}
				if err := tx.Create(&sc).Error; err != nil {
					return nil, err
				}

				order := make(ordering.OrderList, 0, len(in.Shots))
				for j, shIn := range in.Shots {
					sh := ds.Shot{
						SceneID:      sc.ID,
						Status:       shIn.EffectiveStatus(),
						LockedNumber: shIn.LockedNumber,
						Description:  shIn.Description,
						Location:     shIn.Location,
						Notes:        shIn.Notes,
						Attachments:  ordering.OrderList{},
						CreatedAt:    stamp(j),
					}
					if err := tx.Create(&sh).Error; err != nil {
						return nil, err
					}
					order = append(order, sh.ID)
				}
				if err := tx.Model(&ds.Scene{}).Where("id = ?", sc.ID).Update("shot_order", order).Error; err != nil {
					return nil, err
				}
			}
			s.log.Info("project imported",
				zap.String("project_id", p.ID),
				zap.Int("scenes", len(doc.Scenes)),
				zap.Uint("owner", g.UserID))
			return &p, nil
		})
	})
	committed("import_project", err)
	return p, err
}

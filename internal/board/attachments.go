package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brickshot/internal/domain/access"
	"brickshot/internal/domain/media"
	ds "brickshot/internal/domain/shotlist"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = time.Hour
	attachmentLookups = 4
)

type AttachmentView struct {
	ID              string `json:"id"`
	Filename        string `json:"filename"`
	ContentType     string `json:"content_type"`
	FileSizeDisplay string `json:"file_size_display"`
	URL             string `json:"url"`
}

type ShotDetail struct {
	ds.Shot
	Attachments []AttachmentView `json:"attachments"`
}

type UploadTicket struct {
	URL        string `json:"url"`
	StorageKey string `json:"storage_key"`
}

// GetShot loads a shot with its attachments resolved to download links.
// Attachments whose record or blob has gone missing are left out.
func (s *Service) GetShot(ctx context.Context, caller access.Caller, shotID string) (*ShotDetail, error) {
	return access.WithPermission(ctx, s.db, caller, access.EditShot(shotID), func(g access.Grant) (*ShotDetail, error) {
		detail := &ShotDetail{Shot: *g.Shot, Attachments: []AttachmentView{}}
		if len(g.Shot.Attachments) == 0 || s.storage == nil {
			return detail, nil
		}

		var records []media.Attachment
		if err := s.db.WithContext(ctx).Where("id IN ?", []string(g.Shot.Attachments)).Find(&records).Error; err != nil {
			return nil, err
		}
		byID := make(map[string]media.Attachment, len(records))
		for _, a := range records {
			byID[a.ID] = a
		}

		views := make([]*AttachmentView, len(g.Shot.Attachments))
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(attachmentLookups)
		for i, id := range g.Shot.Attachments {
			a, ok := byID[id]
			if !ok {
				continue
			}
			eg.Go(func() error {
				v, err := s.attachmentView(egCtx, a)
				views[i] = v
				return err
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		for _, v := range views {
			if v != nil {
				detail.Attachments = append(detail.Attachments, *v)
			}
		}
		return detail, nil
	})
}

// attachmentView returns nil when the blob is gone from storage.
func (s *Service) attachmentView(ctx context.Context, a media.Attachment) (*AttachmentView, error) {
	info, err := s.storage.Stat(ctx, a.StorageKey)
	if errors.Is(err, media.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	url, err := s.storage.PresignDownload(ctx, a.StorageKey, a.Filename, downloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("couldn't get URL for attachment %s: %w", a.ID, err)
	}
	return &AttachmentView{
		ID:              a.ID,
		Filename:        a.Filename,
		ContentType:     info.ContentType,
		FileSizeDisplay: media.DisplayFileSize(info.Size),
		URL:             url,
	}, nil
}

// GenerateUploadURL hands out a fresh storage key and a presigned URL the
// client uploads the file body to.
func (s *Service) GenerateUploadURL(ctx context.Context, caller access.Caller) (*UploadTicket, error) {
	return access.WithPermission(ctx, s.db, caller, access.IsLoggedIn, func(g access.Grant) (*UploadTicket, error) {
		if s.storage == nil {
			return nil, ErrStorageUnavailable
		}
		key := uuid.NewString()
		url, err := s.storage.PresignUpload(ctx, key, uploadURLExpiry)
		if err != nil {
			return nil, err
		}
		return &UploadTicket{URL: url, StorageKey: key}, nil
	})
}

// AddAttachment records an uploaded blob and appends it to the shot.
func (s *Service) AddAttachment(ctx context.Context, caller access.Caller, shotID, filename, storageKey string) (*media.Attachment, error) {
	a, err := inTx(ctx, s.db, func(tx *gorm.DB) (*media.Attachment, error) {
		pred := access.All(access.IsLoggedIn, access.EditShot(shotID))
		return access.WithPermission(ctx, tx, caller, pred, func(g access.Grant) (*media.Attachment, error) {
			var existing int64
			if err := tx.Model(&media.Attachment{}).Where("storage_key = ?", storageKey).Count(&existing).Error; err != nil {
				return nil, err
			}
			if existing > 0 {
				return nil, fmt.Errorf("storage key %s: %w", storageKey, ds.ErrAttachmentExists)
			}

			var sh ds.Shot
			if err := forUpdate(tx, &sh, shotID); err != nil {
				return nil, err
			}
			a := media.Attachment{StorageKey: storageKey, Filename: filename, OwnerID: g.UserID}
			if err := tx.Create(&a).Error; err != nil {
				return nil, err
			}
			list := append(sh.Attachments.Clone(), a.ID)
			if err := tx.Model(&ds.Shot{}).Where("id = ?", shotID).Update("attachments", list).Error; err != nil {
				return nil, err
			}
			s.log.Info("attachment added", zap.String("shot_id", shotID), zap.String("attachment_id", a.ID))
			return &a, nil
		})
	})
	committed("add_attachment", err)
	return a, err
}

package access

import (
	"context"
	"errors"
	"fmt"

	"brickshot/internal/domain/shotlist"

	"gorm.io/gorm"
)

// Predicate checks caller against a target and returns what it loaded.
type Predicate func(ctx context.Context, db *gorm.DB, caller Caller) (Grant, error)

// WithPermission evaluates pred and only then runs body. A failing predicate
// aborts the whole operation before anything is written.
func WithPermission[T any](ctx context.Context, db *gorm.DB, caller Caller, pred Predicate, body func(Grant) (T, error)) (T, error) {
	var zero T
	g, err := pred(ctx, db, caller)
	if err != nil {
		return zero, err
	}
	return body(g)
}

func IsLoggedIn(ctx context.Context, db *gorm.DB, caller Caller) (Grant, error) {
	if !caller.LoggedIn() {
		return Grant{}, ErrUnauthenticated
	}
	return Grant{UserID: caller.UserID}, nil
}

// All passes when every predicate passes; grants are merged left to right.
func All(preds ...Predicate) Predicate {
	return func(ctx context.Context, db *gorm.DB, caller Caller) (Grant, error) {
		var g Grant
		for _, p := range preds {
			next, err := p(ctx, db, caller)
			if err != nil {
				return Grant{}, err
			}
			g = g.merge(next)
		}
		return g, nil
	}
}

func EditProject(projectID string) Predicate {
	return func(ctx context.Context, db *gorm.DB, caller Caller) (Grant, error) {
		g, err := IsLoggedIn(ctx, db, caller)
		if err != nil {
			return Grant{}, err
		}
		var p shotlist.Project
		if err := first(ctx, db, &p, projectID); err != nil {
			return Grant{}, err
		}
		if p.OwnerID != caller.UserID {
			return Grant{}, ErrForbidden
		}
		g.Project = &p
		return g, nil
	}
}

func EditScene(sceneID string) Predicate {
	return func(ctx context.Context, db *gorm.DB, caller Caller) (Grant, error) {
		if !caller.LoggedIn() {
			return Grant{}, ErrUnauthenticated
		}
		var s shotlist.Scene
		if err := first(ctx, db, &s, sceneID); err != nil {
			return Grant{}, err
		}
		g, err := EditProject(s.ProjectID)(ctx, db, caller)
		if err != nil {
			return Grant{}, err
		}
		g.Scene = &s
		return g, nil
	}
}

func EditShot(shotID string) Predicate {
	return func(ctx context.Context, db *gorm.DB, caller Caller) (Grant, error) {
		if !caller.LoggedIn() {
			return Grant{}, ErrUnauthenticated
		}
		var sh shotlist.Shot
		if err := first(ctx, db, &sh, shotID); err != nil {
			return Grant{}, err
		}
		g, err := EditScene(sh.SceneID)(ctx, db, caller)
		if err != nil {
			return Grant{}, err
		}
		g.Shot = &sh
		return g, nil
	}
}

func first(ctx context.Context, db *gorm.DB, dest interface{}, id string) error {
	err := db.WithContext(ctx).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shotlist.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load %T: %w", dest, err)
	}
	return nil
}

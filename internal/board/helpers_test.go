package board

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"brickshot/internal/dbtest"
	"brickshot/internal/domain/access"
	"brickshot/internal/domain/media"
	ds "brickshot/internal/domain/shotlist"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]media.ObjectInfo
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]media.ObjectInfo{}}
}

func (f *fakeStorage) put(key string, size int64, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = media.ObjectInfo{Key: key, Size: size, ContentType: contentType}
}

func (f *fakeStorage) PresignUpload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://blobs.test/upload/" + key, nil
}

func (f *fakeStorage) PresignDownload(_ context.Context, key, filename string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://blobs.test/%s?name=%s", key, filename), nil
}

func (f *fakeStorage) Stat(_ context.Context, key string) (media.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.objects[key]
	if !ok {
		return media.ObjectInfo{}, media.ErrObjectNotFound
	}
	return info, nil
}

type env struct {
	svc     *Service
	store   *fakeStorage
	owner   access.Caller
	other   access.Caller
	project *ds.Project
	scene   *ds.Scene
}

// newEnv returns a service over a fresh database with one project and one
// empty scene owned by owner.
func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.Open(t)
	store := newFakeStorage()
	svc := New(db, store, zap.NewNop())

	owner := dbtest.Caller(dbtest.User(t, db, "owner"))
	other := dbtest.Caller(dbtest.User(t, db, "other"))

	ctx := context.Background()
	p, err := svc.CreateProject(ctx, owner, "Film")
	require.NoError(t, err)
	sc, err := svc.CreateScene(ctx, owner, p.ID, "Opening")
	require.NoError(t, err)

	return &env{svc: svc, store: store, owner: owner, other: other, project: p, scene: sc}
}

// addShots appends n shots to the env's scene and returns their ids in order.
func (e *env) addShots(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := e.svc.CreateShot(context.Background(), e.owner, e.scene.ID, NewShot{})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func (e *env) board(t *testing.T) *Board {
	t.Helper()
	b, err := e.svc.ListShots(context.Background(), e.owner, e.scene.ID, nil)
	require.NoError(t, err)
	return b
}

func idsOf(b *Board) []string {
	out := make([]string, 0, len(b.Shots))
	for _, r := range b.Shots {
		out = append(out, r.ID)
	}
	return out
}

func numbersOf(b *Board) map[string]int {
	out := make(map[string]int, len(b.Shots))
	for _, r := range b.Shots {
		out[r.ID] = r.Number
	}
	return out
}

func intp(v int) *int { return &v }

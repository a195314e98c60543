package board

import (
	"context"
	"testing"

	"brickshot/internal/domain/ordering"
	ds "brickshot/internal/domain/shotlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListScenesNumbersByPosition(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	second, err := e.svc.CreateScene(ctx, e.owner, e.project.ID, "Chase")
	require.NoError(t, err)
	third, err := e.svc.CreateScene(ctx, e.owner, e.project.ID, "Finale")
	require.NoError(t, err)

	require.NoError(t, e.svc.UpdateScene(ctx, e.owner, second.ID, ScenePatch{LockedNumber: ds.Some(1)}))

	scenes, err := e.svc.ListScenes(ctx, e.owner, e.project.ID)
	require.NoError(t, err)
	require.Len(t, scenes, 3)
	assert.Equal(t, []string{e.scene.ID, second.ID, third.ID}, []string{scenes[0].ID, scenes[1].ID, scenes[2].ID})
	// Scenes do not avoid each other's pins.
	assert.Equal(t, []int{1, 1, 3}, []int{scenes[0].Number, scenes[1].Number, scenes[2].Number})

	v, err := e.svc.GetScene(ctx, e.owner, third.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Index)
	assert.Equal(t, 3, v.Number)
	assert.Equal(t, "Finale", v.Description)
}

func TestShotCodesUseSceneNumber(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.addShots(t, 2)

	require.NoError(t, e.svc.UpdateScene(ctx, e.owner, e.scene.ID, ScenePatch{LockedNumber: ds.Some(12)}))
	b := e.board(t)
	assert.Equal(t, "12-1", b.Shots[0].Code)
	assert.Equal(t, "12-2", b.Shots[1].Code)

	require.NoError(t, e.svc.UpdateScene(ctx, e.owner, e.scene.ID, ScenePatch{LockedNumber: ds.Null[int]()}))
	assert.Equal(t, "1-1", e.board(t).Shots[0].Code)
}

func TestUpdateSceneReplacesOrderAndDescription(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ids := e.addShots(t, 3)

	desc := "Opening, revised"
	order := ordering.OrderList{ids[2], ids[0], ids[1]}
	require.NoError(t, e.svc.UpdateScene(ctx, e.owner, e.scene.ID, ScenePatch{Description: &desc, ShotOrder: &order}))

	b := e.board(t)
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, idsOf(b))
	assert.Equal(t, desc, b.Scene.Description)
	assert.Nil(t, b.Scene.LockedNumber)
}

func TestDeleteSceneRemovesShots(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ids := e.addShots(t, 2)

	require.NoError(t, e.svc.DeleteScene(ctx, e.owner, e.scene.ID))

	_, err := e.svc.GetScene(ctx, e.owner, e.scene.ID)
	assert.ErrorIs(t, err, ds.ErrNotFound)
	_, err = e.svc.GetShot(ctx, e.owner, ids[0])
	assert.ErrorIs(t, err, ds.ErrNotFound)

	var left int64
	require.NoError(t, e.svc.db.Model(&ds.Shot{}).Count(&left).Error)
	assert.Zero(t, left)

	assert.NoError(t, e.svc.DeleteScene(ctx, e.owner, e.scene.ID))
}

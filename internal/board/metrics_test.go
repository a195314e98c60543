package board

import (
	"context"
	"testing"

	"brickshot/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mutations(op string) float64 {
	return testutil.ToFloat64(metrics.Mutations.WithLabelValues(op))
}

func TestWritesAreCounted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	createScene := mutations("create_scene")
	updateScene := mutations("update_scene")
	deleteScene := mutations("delete_scene")
	renameProject := mutations("rename_project")
	deleteProject := mutations("delete_project")

	sc, err := e.svc.CreateScene(ctx, e.owner, e.project.ID, "Chase")
	require.NoError(t, err)
	desc := "Chase, night"
	require.NoError(t, e.svc.UpdateScene(ctx, e.owner, sc.ID, ScenePatch{Description: &desc}))
	require.NoError(t, e.svc.RenameProject(ctx, e.owner, e.project.ID, "Film II"))
	require.NoError(t, e.svc.DeleteScene(ctx, e.owner, sc.ID))

	assert.Equal(t, createScene+1, mutations("create_scene"))
	assert.Equal(t, updateScene+1, mutations("update_scene"))
	assert.Equal(t, renameProject+1, mutations("rename_project"))
	assert.Equal(t, deleteScene+1, mutations("delete_scene"))

	// Denied and no-op writes are not counted.
	assert.Error(t, e.svc.UpdateScene(ctx, e.other, e.scene.ID, ScenePatch{Description: &desc}))
	require.NoError(t, e.svc.DeleteScene(ctx, e.owner, sc.ID))
	assert.Equal(t, updateScene+1, mutations("update_scene"))
	assert.Equal(t, deleteScene+1, mutations("delete_scene"))

	require.NoError(t, e.svc.DeleteProject(ctx, e.owner, e.project.ID))
	assert.Equal(t, deleteProject+1, mutations("delete_project"))
}

package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"brickshot/config"
	"brickshot/database"
	routes "brickshot/internal/app/http"
	"brickshot/internal/board"
	"brickshot/internal/client"
	"brickshot/internal/dbtest"
	"brickshot/internal/domain/access"
	"brickshot/internal/domain/numbering"
	ds "brickshot/internal/domain/shotlist"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const password = "reel2reel"

type fixture struct {
	srv    *httptest.Server
	svc    *board.Service
	caller access.Caller
	scene  *ds.Scene
	shots  []string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t)
	database.DB = db
	config.JWT_SECRET = "client-test-secret"

	u := dbtest.User(t, db, "director")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Model(&u).Update("password", string(hash)).Error)

	svc := board.New(db, nil, nil)
	r := gin.New()
	routes.RegisterRoutes(r, svc)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	caller := dbtest.Caller(u)
	p, err := svc.CreateProject(ctx, caller, "Film")
	require.NoError(t, err)
	sc, err := svc.CreateScene(ctx, caller, p.ID, "Opening")
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := svc.CreateShot(ctx, caller, sc.ID, board.NewShot{})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return &fixture{srv: srv, svc: svc, caller: caller, scene: sc, shots: ids}
}

func login(t *testing.T, f *fixture) *client.Client {
	t.Helper()
	c, err := client.New(f.srv.URL)
	require.NoError(t, err)
	token, err := c.Login(context.Background(), "director@example.com", password)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, token, c.Token())
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := client.New("localhost:8080")
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	f := setup(t)
	c, err := client.New(f.srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "director@example.com", "nope12345")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.Empty(t, c.Token())
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	f := setup(t)
	c, err := client.New(f.srv.URL)
	require.NoError(t, err)

	_, err = c.Projects(context.Background(), "")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
}

func TestBoardAndCycleStatus(t *testing.T) {
	f := setup(t)
	c := login(t, f)
	ctx := context.Background()

	b, err := c.Board(ctx, f.scene.ID)
	require.NoError(t, err)
	require.Len(t, b.Shots, 3)
	assert.Equal(t, "1-2", b.Shots[1].Code)

	cached, ok := c.Shot(f.shots[1])
	require.True(t, ok)
	assert.Equal(t, ds.StatusDefault, cached.Status)

	row, err := c.CycleStatus(ctx, f.shots[1])
	require.NoError(t, err)
	assert.Equal(t, ds.StatusWIP, row.Status)
	require.NotNil(t, row.LockedNumber)
	assert.Equal(t, 2, *row.LockedNumber)

	cached, _ = c.Shot(f.shots[1])
	assert.Equal(t, ds.StatusWIP, cached.Status)

	filtered, err := c.Board(ctx, f.scene.ID, ds.StatusWIP)
	require.NoError(t, err)
	require.Len(t, filtered.Shots, 1)
	assert.Equal(t, f.shots[1], filtered.Shots[0].ID)
}

func TestEditCode(t *testing.T) {
	f := setup(t)
	c := login(t, f)
	ctx := context.Background()

	_, err := c.EditCode(ctx, f.shots[0], "seven")
	assert.ErrorIs(t, err, numbering.ErrInvalidNumber)

	_, err = c.Board(ctx, f.scene.ID)
	require.NoError(t, err)
	_, err = c.CycleStatus(ctx, f.shots[0])
	require.NoError(t, err)

	row, err := c.EditCode(ctx, f.shots[0], "9")
	require.NoError(t, err)
	require.NotNil(t, row.LockedNumber)
	assert.Equal(t, 9, *row.LockedNumber)
	assert.Equal(t, "1-9", row.Code)

	cached, _ := c.Shot(f.shots[0])
	assert.Equal(t, "1-9", cached.Code)
}

func TestFailedWriteDropsPrediction(t *testing.T) {
	f := setup(t)
	c := login(t, f)
	ctx := context.Background()

	_, err := c.Board(ctx, f.scene.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteShot(ctx, f.caller, f.shots[2]))

	_, err = c.ToggleUnsure(ctx, f.shots[2])
	assert.True(t, client.IsStatus(err, http.StatusNotFound))

	cached, ok := c.Shot(f.shots[2])
	require.True(t, ok)
	assert.Equal(t, ds.StatusDefault, cached.Status)
}

func TestExportImport(t *testing.T) {
	f := setup(t)
	c := login(t, f)
	ctx := context.Background()

	projects, err := c.Projects(ctx, "")
	require.NoError(t, err)
	require.Len(t, projects, 1)

	data, name, err := c.Export(ctx, projects[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Film.brickshot", name)
	assert.Contains(t, string(data), `"scenes"`)

	imported, err := c.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "Film", imported.Name)
	assert.NotEqual(t, projects[0].ID, imported.ID)

	projects, err = c.Projects(ctx, "")
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	_, err = c.Import(ctx, []byte(`{"scenes": [{"shots": [{"status": "bogus"}]}]}`))
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
}

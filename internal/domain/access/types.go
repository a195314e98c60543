package access

import (
	"errors"

	"brickshot/internal/domain/shotlist"
)

var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrForbidden       = errors.New("access denied")
)

// Caller is whoever invokes an operation. UserID is zero for anonymous calls.
type Caller struct {
	UserID uint
	Role   string
}

func (c Caller) LoggedIn() bool { return c.UserID != 0 }

// Grant carries what a predicate loaded while checking access, so the
// protected body does not read the same records again.
type Grant struct {
	UserID  uint
	Project *shotlist.Project
	Scene   *shotlist.Scene
	Shot    *shotlist.Shot
}

func (g Grant) merge(o Grant) Grant {
	if o.UserID != 0 {
		g.UserID = o.UserID
	}
	if o.Project != nil {
		g.Project = o.Project
	}
	if o.Scene != nil {
		g.Scene = o.Scene
	}
	if o.Shot != nil {
		g.Shot = o.Shot
	}
	return g
}

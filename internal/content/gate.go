package content

import (
	"context"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/errs"
)

type Connectivity interface {
	Online() bool
}

// Gate decides whether a mutation may reach the store. Reads never pass
// through it.
type Gate struct {
	conn Connectivity
}

func NewGate(conn Connectivity) *Gate {
	return &Gate{conn: conn}
}

// Check fails fast with the first precondition that does not hold: offline,
// identity not yet resolved, then signed out.
func (g *Gate) Check(ctx context.Context) (auth.Identity, error) {
	if g.conn != nil && !g.conn.Online() {
		return auth.Identity{}, errs.New(errs.KindOffline, errs.MsgOffline)
	}
	st := auth.StateFromContext(ctx)
	if !st.Checked {
		return auth.Identity{}, errs.New(errs.KindAuthChecking, errs.MsgAuthChecking)
	}
	if st.User == nil {
		return auth.Identity{}, errs.New(errs.KindUnauthenticated, errs.MsgUnauthenticated)
	}
	return *st.User, nil
}

// CheckOnline is the gate for anonymous writes such as public submissions.
func (g *Gate) CheckOnline() error {
	if g.conn != nil && !g.conn.Online() {
		return errs.New(errs.KindOffline, errs.MsgOffline)
	}
	return nil
}

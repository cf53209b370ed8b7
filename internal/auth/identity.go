package auth

import "context"

const RoleAdmin = "admin"

// Identity is the signed-in user as seen by the content engine.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// DisplayName is stamped into createdBy/updatedBy.
func (i Identity) DisplayName() string {
	if i.Email != "" {
		return i.Email
	}
	if i.Username != "" {
		return i.Username
	}
	return i.ID
}

// State is the outcome of the identity check for one request. Checked stays
// false until a resolver has looked at the request credentials.
type State struct {
	Checked bool
	User    *Identity
}

func SignedIn(id Identity) State {
	return State{Checked: true, User: &id}
}

func SignedOut() State {
	return State{Checked: true}
}

type stateKey struct{}

func WithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

func StateFromContext(ctx context.Context) State {
	if st, ok := ctx.Value(stateKey{}).(State); ok {
		return st
	}
	return State{}
}

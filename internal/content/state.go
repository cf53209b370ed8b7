package content

import "time"

// SuccessVisibleFor is how long a success message stays in the status view.
const SuccessVisibleFor = 3 * time.Second

const MsgUsingCache = "Showing cached data. Live updates are unavailable right now."

// State is what the admin dashboard renders for one entity type. It only ever
// changes through the transition functions below.
type State struct {
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	Notice    string    `json:"notice,omitempty"`
	FromCache bool      `json:"fromCache"`
	Success   string    `json:"success,omitempty"`
	SuccessAt time.Time `json:"-"`
	SyncedAt  time.Time `json:"syncedAt,omitempty"`

	// fetchErr marks Error as coming from a failed query, which the next
	// successful query clears. Mutation errors stay until dismissed.
	fetchErr bool
}

type transition func(State) State

func fetchStarted() transition {
	return func(s State) State {
		s.Loading = true
		return s
	}
}

func snapshotApplied(at time.Time, fromCache bool) transition {
	return func(s State) State {
		s.Loading = false
		s.FromCache = fromCache
		s.Notice = ""
		if !fromCache {
			s.SyncedAt = at
			if s.fetchErr {
				s.Error = ""
				s.fetchErr = false
			}
		}
		return s
	}
}

// fetchFailed degrades to cached data when there is any, otherwise surfaces msg.
func fetchFailed(msg string, usedCache bool) transition {
	return func(s State) State {
		s.Loading = false
		s.FromCache = usedCache
		if usedCache {
			s.Notice = MsgUsingCache
			return s
		}
		s.Notice = ""
		s.Error = msg
		s.fetchErr = true
		return s
	}
}

func mutationFailed(msg string) transition {
	return func(s State) State {
		s.Error = msg
		s.fetchErr = false
		s.Success = ""
		return s
	}
}

func mutationSucceeded(msg string, at time.Time) transition {
	return func(s State) State {
		s.Error = ""
		s.fetchErr = false
		s.Success = msg
		s.SuccessAt = at
		return s
	}
}

func errorDismissed() transition {
	return func(s State) State {
		s.Error = ""
		s.fetchErr = false
		return s
	}
}

// View hides an expired success message.
func (s State) View(now time.Time) State {
	if s.Success != "" && now.Sub(s.SuccessAt) >= SuccessVisibleFor {
		s.Success = ""
		s.SuccessAt = time.Time{}
	}
	return s
}

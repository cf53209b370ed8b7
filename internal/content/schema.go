package content

import (
	"go.mongodb.org/mongo-driver/bson"

	"portfolio-backend/internal/ratelimit"
)

// Schema parameterizes one Syncer: where the documents live, how they are
// listed, and how often they may be written.
type Schema struct {
	// Label names the entity in user-facing messages ("Project").
	Label      string
	Collection string
	// Singleton entities expect exactly one document; create is refused once
	// any document exists.
	Singleton bool
	Query     Query
	// PublicFilter narrows the public mirror. Nil means the public view equals
	// the admin view.
	PublicFilter bson.M
	Limits       ratelimit.Limits
}

// Payload is a caller-supplied write. Fields returns only the fields the
// caller actually set, keyed by their document paths.
type Payload interface {
	Normalize()
	Fields() bson.M
}

func (s Schema) publicQuery() Query {
	if s.PublicFilter == nil {
		return s.Query
	}
	q := s.Query
	filter := bson.M{}
	for k, v := range s.Query.Filter {
		filter[k] = v
	}
	for k, v := range s.PublicFilter {
		filter[k] = v
	}
	q.Filter = filter
	return q
}

// DefaultLimits are the per-minute quotas for one entity type.
func DefaultLimits() ratelimit.Limits {
	return ratelimit.Limits{
		ratelimit.OpCreate: 5,
		ratelimit.OpUpdate: 10,
		ratelimit.OpDelete: 3,
	}
}

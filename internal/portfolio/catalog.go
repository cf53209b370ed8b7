package portfolio

import (
	"context"
	"fmt"

	"portfolio-backend/internal/content"
	"portfolio-backend/internal/ratelimit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const (
	CollectionProjects     = "projects"
	CollectionAbout        = "aboutMe"
	CollectionTestimonials = "testimonials"
	CollectionContact      = "contact"
)

// URL slugs used by the HTTP layer.
const (
	SlugProjects     = "projects"
	SlugAbout        = "about"
	SlugTestimonials = "testimonials"
	SlugContact      = "contact"
)

// Quotas are the per-minute write limits for each entity type.
type Quotas struct {
	Create        int
	Update        int
	ContactUpdate int
	Delete        int
}

func DefaultQuotas() Quotas {
	return Quotas{Create: 5, Update: 10, ContactUpdate: 15, Delete: 3}
}

func (q Quotas) limits(update int) ratelimit.Limits {
	return ratelimit.Limits{
		ratelimit.OpCreate: q.Create,
		ratelimit.OpUpdate: update,
		ratelimit.OpDelete: q.Delete,
	}
}

func ProjectSchema(q Quotas) content.Schema {
	return content.Schema{
		Label:      "Project",
		Collection: CollectionProjects,
		Query:      content.Query{Sort: content.NewestFirst},
		Limits:     q.limits(q.Update),
	}
}

func AboutSchema(q Quotas) content.Schema {
	return content.Schema{
		Label:      "About me",
		Collection: CollectionAbout,
		Singleton:  true,
		Query:      content.Query{Sort: content.NewestFirst, Limit: 1},
		Limits:     q.limits(q.Update),
	}
}

// TestimonialSchema hides unapproved testimonials from the public view.
func TestimonialSchema(q Quotas) content.Schema {
	return content.Schema{
		Label:        "Testimonial",
		Collection:   CollectionTestimonials,
		Query:        content.Query{Sort: content.NewestFirst},
		PublicFilter: bson.M{"approved": true},
		Limits:       q.limits(q.Update),
	}
}

func ContactSchema(q Quotas) content.Schema {
	return content.Schema{
		Label:      "Contact",
		Collection: CollectionContact,
		Singleton:  true,
		Query:      content.Query{Sort: content.NewestFirst, Limit: 1},
		Limits:     q.limits(q.ContactUpdate),
	}
}

type Stores struct {
	Projects     content.Store[Project]
	About        content.Store[AboutMe]
	Testimonials content.Store[Testimonial]
	Contact      content.Store[Contact]
}

func MongoStores(db *mongo.Database) Stores {
	return Stores{
		Projects:     content.NewMongoStore[Project](db.Collection(CollectionProjects)),
		About:        content.NewMongoStore[AboutMe](db.Collection(CollectionAbout)),
		Testimonials: content.NewMongoStore[Testimonial](db.Collection(CollectionTestimonials)),
		Contact:      content.NewMongoStore[Contact](db.Collection(CollectionContact)),
	}
}

// Catalog holds one Syncer per entity type.
type Catalog struct {
	Projects     *content.Syncer[Project]
	About        *content.Syncer[AboutMe]
	Testimonials *content.Syncer[Testimonial]
	Contact      *content.Syncer[Contact]

	units map[string]content.Unit
	order []string
}

func NewCatalog(stores Stores, q Quotas, deps content.Deps) *Catalog {
	c := &Catalog{
		Projects:     content.NewSyncer(ProjectSchema(q), stores.Projects, deps),
		About:        content.NewSyncer(AboutSchema(q), stores.About, deps),
		Testimonials: content.NewSyncer(TestimonialSchema(q), stores.Testimonials, deps),
		Contact:      content.NewSyncer(ContactSchema(q), stores.Contact, deps),
	}
	c.order = []string{SlugProjects, SlugAbout, SlugTestimonials, SlugContact}
	c.units = map[string]content.Unit{
		SlugProjects:     c.Projects,
		SlugAbout:        c.About,
		SlugTestimonials: c.Testimonials,
		SlugContact:      c.Contact,
	}
	return c
}

// Start brings every mirror up concurrently. Mirrors follow the change feed
// until ctx ends, so ctx must live as long as the process. A failed
// subscription is returned; query failures are not, they only degrade the
// mirror.
func (c *Catalog) Start(ctx context.Context) error {
	var g errgroup.Group
	for _, slug := range c.order {
		unit := c.units[slug]
		g.Go(func() error {
			if err := unit.Start(ctx); err != nil {
				return fmt.Errorf("start %s: %w", slug, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Resync re-reads every entity type, for example after the store comes back.
func (c *Catalog) Resync(ctx context.Context) error {
	var g errgroup.Group
	for _, slug := range c.order {
		unit := c.units[slug]
		g.Go(func() error {
			if err := unit.Resync(ctx); err != nil {
				return fmt.Errorf("resync %s: %w", slug, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Catalog) Close() {
	for _, slug := range c.order {
		c.units[slug].Close()
	}
}

func (c *Catalog) Unit(slug string) (content.Unit, bool) {
	u, ok := c.units[slug]
	return u, ok
}

// Status is the dashboard view of every entity type, keyed by slug.
func (c *Catalog) Status() map[string]content.State {
	out := make(map[string]content.State, len(c.units))
	for slug, u := range c.units {
		out[slug] = u.State()
	}
	return out
}

package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/feed"
	"portfolio-backend/internal/ratelimit"
	"portfolio-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultFreshness = 10 * time.Minute
	DefaultWindow    = time.Minute
)

type Deps struct {
	Cache     cache.Cache
	Feed      feed.Feed
	Gate      *Gate
	Validator *validation.Validator
	Log       *slog.Logger
	// Freshness is how old a cache entry may be and still skip the store on start.
	Freshness time.Duration
	// Retention is the cache entry TTL; entries older than Freshness are still
	// used as a fallback until they expire. Zero keeps them indefinitely.
	Retention time.Duration
	Window    time.Duration
	Now       func() time.Time
	NewID     func() string
}

// Unit is what callers that do not care about the document type need from a
// Syncer.
type Unit interface {
	Schema() Schema
	Start(ctx context.Context) error
	Close()
	Refresh(ctx context.Context) error
	Resync(ctx context.Context) error
	State() State
	DismissError()
}

var _ Unit = (*Syncer[struct{}])(nil)

// Syncer is the synchronization and mutation unit for one entity type: live
// mirrors for reads, gated and throttled writes, and the dashboard state.
type Syncer[T any] struct {
	schema Schema
	store  Store[T]
	gate   *Gate
	quota  *ratelimit.Limiter
	val    *validation.Validator
	feed   feed.Feed
	log    *slog.Logger
	now    func() time.Time
	newID  func() string

	admin  *Mirror[T]
	public *Mirror[T]

	mu    sync.Mutex
	state State
}

func NewSyncer[T any](schema Schema, store Store[T], deps Deps) *Syncer[T] {
	if deps.Cache == nil {
		deps.Cache = cache.NewNoop()
	}
	if deps.Feed == nil {
		deps.Feed = feed.NewLocal()
	}
	if deps.Gate == nil {
		deps.Gate = NewGate(nil)
	}
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Freshness <= 0 {
		deps.Freshness = DefaultFreshness
	}
	if deps.Window <= 0 {
		deps.Window = DefaultWindow
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return primitive.NewObjectID().Hex() }
	}
	limits := schema.Limits
	if limits == nil {
		limits = DefaultLimits()
	}

	log := deps.Log.With(slog.String("entity", schema.Collection))
	s := &Syncer[T]{
		schema: schema,
		store:  store,
		gate:   deps.Gate,
		quota:  ratelimit.New(limits, deps.Window).WithClock(deps.Now),
		val:    deps.Validator,
		feed:   deps.Feed,
		log:    log,
		now:    deps.Now,
		newID:  deps.NewID,
	}

	newMirror := func(q Query, key string) *Mirror[T] {
		return &Mirror[T]{
			topic:    schema.Collection,
			query:    q,
			store:    store,
			cache:    deps.Cache,
			cacheKey: key,
			fresh:    deps.Freshness,
			retain:   deps.Retention,
			feed:     deps.Feed,
			log:      log,
			now:      deps.Now,
			dispatch: s.dispatch,
		}
	}
	s.admin = newMirror(schema.Query, CacheKey(schema.Collection, "all"))
	if schema.PublicFilter == nil {
		s.public = s.admin
	} else {
		s.public = newMirror(schema.publicQuery(), CacheKey(schema.Collection, "public"))
	}
	return s
}

// CacheKey is the fixed, versioned key of one mirror's cache entry.
func CacheKey(collection, view string) string {
	return "portfolio:" + collection + ":" + view + ":v1"
}

func (s *Syncer[T]) Schema() Schema {
	return s.schema
}

// Admin mirrors every document; Public mirrors what anonymous visitors see.
func (s *Syncer[T]) Admin() *Mirror[T] {
	return s.admin
}

func (s *Syncer[T]) Public() *Mirror[T] {
	return s.public
}

func (s *Syncer[T]) Start(ctx context.Context) error {
	if err := s.admin.Start(ctx); err != nil {
		return err
	}
	if s.public != s.admin {
		if err := s.public.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer[T]) Close() {
	s.admin.Close()
	if s.public != s.admin {
		s.public.Close()
	}
}

// Refresh forces a re-read of both views.
func (s *Syncer[T]) Refresh(ctx context.Context) error {
	if err := s.admin.Refresh(ctx); err != nil {
		return err
	}
	if s.public != s.admin {
		return s.public.Refresh(ctx)
	}
	return nil
}

// Resync re-runs both queries and keeps the cache entries, so a failure still
// has something to fall back on.
func (s *Syncer[T]) Resync(ctx context.Context) error {
	if err := s.admin.Sync(ctx); err != nil {
		return err
	}
	if s.public != s.admin {
		return s.public.Sync(ctx)
	}
	return nil
}

func (s *Syncer[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.View(s.now())
}

func (s *Syncer[T]) DismissError() {
	s.dispatch(errorDismissed())
}

func (s *Syncer[T]) dispatch(t transition) {
	s.mu.Lock()
	s.state = t(s.state)
	s.mu.Unlock()
}

// Create validates p, stamps createdBy and writes a new document.
func (s *Syncer[T]) Create(ctx context.Context, p Payload) (string, error) {
	id, err := s.create(ctx, p)
	if err != nil {
		return "", s.fail(ratelimit.OpCreate, err)
	}
	s.log.Info("content create: ok", slog.String("id", id))
	s.dispatch(mutationSucceeded(s.schema.Label+" created.", s.now()))
	return id, nil
}

func (s *Syncer[T]) create(ctx context.Context, p Payload) (string, error) {
	who, err := s.gate.Check(ctx)
	if err != nil {
		return "", err
	}
	if err := s.quota.Allow(ratelimit.OpCreate, who.ID); err != nil {
		return "", err
	}
	if s.schema.Singleton {
		exists, err := s.store.Exists(ctx)
		if err != nil {
			return "", err
		}
		if exists {
			return "", errs.New(errs.KindAlreadyExists,
				fmt.Sprintf("%s already exists. Update it instead.", s.schema.Label))
		}
	}
	if err := s.validate(p); err != nil {
		return "", err
	}

	fields := p.Fields()
	fields["createdBy"] = who.DisplayName()

	id := s.newID()
	if err := s.store.Insert(ctx, id, fields); err != nil {
		return "", err
	}
	s.publish(ctx)
	return id, nil
}

// Update writes only the fields present in p and stamps updatedBy.
func (s *Syncer[T]) Update(ctx context.Context, id string, p Payload) error {
	if err := s.update(ctx, id, p); err != nil {
		return s.fail(ratelimit.OpUpdate, err)
	}
	s.log.Info("content update: ok", slog.String("id", id))
	s.dispatch(mutationSucceeded(s.schema.Label+" updated.", s.now()))
	return nil
}

func (s *Syncer[T]) update(ctx context.Context, id string, p Payload) error {
	who, err := s.gate.Check(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.Validation("An id is required.", map[string]string{"id": "required"})
	}
	if err := s.quota.Allow(ratelimit.OpUpdate, who.ID); err != nil {
		return err
	}
	if err := s.validate(p); err != nil {
		return err
	}

	fields := p.Fields()
	if len(fields) == 0 {
		return errs.Validation("Nothing to update.", nil)
	}
	fields["updatedBy"] = who.DisplayName()

	if err := s.store.Update(ctx, id, fields); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Delete removes the document outright.
func (s *Syncer[T]) Delete(ctx context.Context, id string) error {
	if err := s.delete(ctx, id); err != nil {
		return s.fail(ratelimit.OpDelete, err)
	}
	s.log.Info("content delete: ok", slog.String("id", id))
	s.dispatch(mutationSucceeded(s.schema.Label+" deleted.", s.now()))
	return nil
}

func (s *Syncer[T]) delete(ctx context.Context, id string) error {
	who, err := s.gate.Check(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.Validation("An id is required.", map[string]string{"id": "required"})
	}
	if err := s.quota.Allow(ratelimit.OpDelete, who.ID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Submit is the anonymous write path. It needs connectivity but no identity,
// and overrides are applied after the caller's fields. Throttling is left to
// the HTTP layer, which knows the client address.
func (s *Syncer[T]) Submit(ctx context.Context, p Payload, overrides bson.M) (string, error) {
	if err := s.gate.CheckOnline(); err != nil {
		return "", err
	}
	if err := s.validate(p); err != nil {
		return "", err
	}
	fields := p.Fields()
	for k, v := range overrides {
		fields[k] = v
	}
	id := s.newID()
	if err := s.store.Insert(ctx, id, fields); err != nil {
		return "", Classify(err)
	}
	s.publish(ctx)
	s.log.Info("content submit: ok", slog.String("id", id))
	return id, nil
}

func (s *Syncer[T]) validate(p Payload) error {
	if p == nil {
		return errs.Validation("Nothing to save.", nil)
	}
	p.Normalize()
	if err := s.val.Struct(p); err != nil {
		ve := s.val.ValidationErrors(err)
		if ve == nil {
			return errs.Validation("Invalid input.", nil)
		}
		return errs.Validation(validation.Describe(ve), validation.Details(ve))
	}
	return nil
}

func (s *Syncer[T]) publish(ctx context.Context) {
	if err := s.feed.Publish(ctx, s.schema.Collection); err != nil {
		s.log.Warn("content publish: failed", slog.String("error", err.Error()))
	}
}

// fail classifies err, records it for the dashboard and hands it back.
func (s *Syncer[T]) fail(op ratelimit.Op, err error) error {
	appErr := Classify(err)
	s.dispatch(mutationFailed(appErr.Message))

	attrs := []any{
		slog.String("op", string(op)),
		slog.String("kind", string(appErr.Kind)),
		slog.String("error", err.Error()),
	}
	switch appErr.Kind {
	case errs.KindUnknown, errs.KindUnavailable, errs.KindPermissionDenied:
		s.log.Error("content mutation: failed", attrs...)
	default:
		s.log.Warn("content mutation: rejected", attrs...)
	}
	return appErr
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"dto-services/internal/mapper"
	"dto-services/internal/match"
	"dto-services/internal/plan"
	"dto-services/internal/style"
	"dto-services/persist"
	"dto-services/registry"
	"dto-services/status"
)

var ErrNotRegistered = errors.New("DTO type is not registered")

// Service executes CRUD operations for DTO type D.
type Service[D any] struct {
	link     *registry.Link
	store    persist.Store
	messages Messages
	logger   *slog.Logger

	entityType reflect.Type
	name       string
}

// Option configures a Service.
type Option func(*options)

type options struct {
	messages Messages
	logger   *slog.Logger
}

// WithMessages overrides the status texts.
func WithMessages(m Messages) Option {
	return func(o *options) {
		o.messages = m
	}
}

// WithLogger sets the logger. Operations are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New returns a Service for D. D must already be registered in reg, and its
// registration must have succeeded.
func New[D any](reg *registry.Registry, store persist.Store, opts ...Option) (*Service[D], error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	dtoType := reflect.TypeFor[D]()

	link, ok := reg.Lookup(dtoType)
	if !ok {
		return nil, fmt.Errorf("%s: %w", dtoType, ErrNotRegistered)
	}

	if !link.Valid() {
		return nil, fmt.Errorf("%s: registration failed: %w", dtoType, link.Status.Err())
	}

	return &Service[D]{
		link:       link,
		store:      store,
		messages:   o.messages.withDefaults(),
		logger:     o.logger,
		entityType: link.Entity.Type,
		name:       match.DisplayName(link.Entity.Shape.Name),
	}, nil
}

// Must is like New but panics on error.
func Must[D any](reg *registry.Registry, store persist.Store, opts ...Option) *Service[D] {
	s, err := New[D](reg, store, opts...)
	if err != nil {
		panic(err)
	}

	return s
}

// Style returns the construction style of the linked entity.
func (s *Service[D]) Style() style.Style {
	return s.link.Config.Style
}

// Config returns the mapping plans of D.
func (s *Service[D]) Config() plan.MappingConfig {
	return s.link.Config
}

// Create builds a new entity from dto, persists it and returns its key. A
// generated key is also written into the DTO key property when there is one.
func (s *Service[D]) Create(ctx context.Context, dto *D) (any, status.Status) {
	if dto == nil {
		return nil, s.invalidInput("Create")
	}

	cfg := s.link.Config
	if cfg.Style == style.ReadOnly {
		return nil, s.readOnly("created")
	}

	src := reflect.ValueOf(dto)

	var (
		ent reflect.Value
		st  status.Status
	)

	switch cfg.Save.Kind {
	case plan.SaveCopy:
		ent = reflect.New(s.entityType)
		mapper.ApplyCopy(cfg.Save.Copy, src, ent)

	case plan.SaveBinding:
		ent, st = mapper.Invoke(cfg.Save.Binding, src)
		if !st.IsValid() {
			s.logger.Debug("create rejected", "entity", s.link.Entity.Shape.Name, "error", st.String())

			return nil, st
		}

	default:
		return nil, s.fail(status.KindMappingBuild, status.CodeCannotCreate, cfg.Save.Reason)
	}

	db := s.store.Session()
	if err := db.Add(ent.Interface()); err != nil {
		return nil, s.persistence(err)
	}

	if err := db.Commit(ctx); err != nil {
		return nil, s.persistence(err)
	}

	if cfg.Key != nil {
		mapper.ApplyField(*cfg.Key, ent, src)
	}

	key := s.entityKey(ent)
	s.logger.Debug("entity created", "entity", s.link.Entity.Shape.Name, "key", key)

	return key, status.Combine(st, status.Ok(render(s.messages.Created, s.name)))
}

// Update changes the stored entity identified by the DTO key. It uses the
// first matching updater method, else copies the settable properties, else
// rebuilds the entity through its constructor or factory keeping the key.
func (s *Service[D]) Update(ctx context.Context, dto *D) status.Status {
	if dto == nil {
		return s.invalidInput("Update")
	}

	cfg := s.link.Config
	if cfg.Style == style.ReadOnly {
		return s.readOnly("updated")
	}

	if cfg.Update.Kind == plan.UpdateUnsupported {
		return s.fail(status.KindMappingBuild, status.CodeCannotUpdate,
			fmt.Sprintf("%s cannot be updated from %s", s.link.Entity.Shape.Name, s.link.Dto.Name))
	}

	src := reflect.ValueOf(dto)

	key, st := s.dtoKey(src)
	if !st.IsValid() {
		return st
	}

	db := s.store.Session()

	found, st := s.find(ctx, db, key)
	if !st.IsValid() {
		return st
	}

	var next reflect.Value

	switch cfg.Update.Kind {
	case plan.UpdateUpdater:
		if st = mapper.CallUpdater(cfg.Update.Updater, found, src); !st.IsValid() {
			return st
		}

		next = found

	case plan.UpdateCopy:
		mapper.ApplyCopy(cfg.Save.Copy, src, found)
		next = found

	case plan.UpdateRebuild:
		if next, st = mapper.Invoke(cfg.Save.Binding, src); !st.IsValid() {
			return st
		}

		if k := s.link.Entity.Shape.Key; k != nil {
			next.Elem().FieldByIndex(k.Index).Set(found.Elem().FieldByIndex(k.Index))
		}
	}

	if err := db.Update(next.Interface()); err != nil {
		return s.persistence(err)
	}

	if err := db.Commit(ctx); err != nil {
		return s.persistence(err)
	}

	s.logger.Debug("entity updated", "entity", s.link.Entity.Shape.Name, "key", key, "via", cfg.Update.Kind.String())

	return status.Combine(st, status.Ok(render(s.messages.Updated, s.name)))
}

// Delete removes the entity with key.
func (s *Service[D]) Delete(ctx context.Context, key any) status.Status {
	db := s.store.Session()

	found, st := s.find(ctx, db, key)
	if !st.IsValid() {
		return st
	}

	if err := db.Remove(found.Interface()); err != nil {
		return s.persistence(err)
	}

	if err := db.Commit(ctx); err != nil {
		return s.persistence(err)
	}

	s.logger.Debug("entity deleted", "entity", s.link.Entity.Shape.Name, "key", key)

	return status.Ok(render(s.messages.Deleted, s.name))
}

// DeleteDto removes the entity identified by the DTO key.
func (s *Service[D]) DeleteDto(ctx context.Context, dto *D) status.Status {
	if dto == nil {
		return s.invalidInput("DeleteDto")
	}

	key, st := s.dtoKey(reflect.ValueOf(dto))
	if !st.IsValid() {
		return st
	}

	return s.Delete(ctx, key)
}

// Read loads the entity with key and projects it onto a new D.
func (s *Service[D]) Read(ctx context.Context, key any) (*D, status.Status) {
	found, st := s.find(ctx, s.store.Session(), key)
	if !st.IsValid() {
		return nil, st
	}

	out := new(D)
	mapper.ApplyCopy(&s.link.Config.Read, found, reflect.ValueOf(out))

	if key := s.link.Config.Key; key != nil {
		mapper.ApplyField(*key, found, reflect.ValueOf(out))
	}

	return out, status.Ok(s.messages.Read)
}

// Count returns the number of stored entities linked to D.
func (s *Service[D]) Count(ctx context.Context) (int, status.Status) {
	n, err := s.store.Session().Count(ctx, s.entityType)
	if err != nil {
		return 0, s.persistence(err)
	}

	return n, status.Status{}
}

func (s *Service[D]) find(ctx context.Context, db persist.Context, key any) (reflect.Value, status.Status) {
	if isZeroKey(key) {
		return reflect.Value{}, s.missingKey()
	}

	v, ok, err := db.Find(ctx, s.entityType, key)
	if err != nil {
		return reflect.Value{}, s.persistence(err)
	}

	if !ok {
		return reflect.Value{}, s.fail(status.KindNotFound, status.CodeNotFound, render(s.messages.NotFound, s.name))
	}

	return reflect.ValueOf(v), status.Status{}
}

func (s *Service[D]) dtoKey(dto reflect.Value) (any, status.Status) {
	if s.link.DtoKey == nil {
		return nil, s.fail(status.KindMappingBuild, status.CodeMissingKey,
			fmt.Sprintf("%s has no key property", s.link.Dto.Name))
	}

	key := dto.Elem().FieldByIndex(s.link.DtoKey.Index)
	if key.IsZero() {
		return nil, s.missingKey()
	}

	return key.Interface(), status.Status{}
}

func (s *Service[D]) entityKey(ent reflect.Value) any {
	if s.link.Entity.Shape.Key == nil {
		return nil
	}

	return ent.Elem().FieldByIndex(s.link.Entity.Shape.Key.Index).Interface()
}

func (s *Service[D]) fail(kind status.Kind, code, msg string) status.Status {
	return status.Status{}.WithError(status.ErrorDetail{
		Kind:    kind,
		Code:    code,
		Message: msg,
		Entity:  s.link.Entity.Shape.Name,
	})
}

func (s *Service[D]) readOnly(verb string) status.Status {
	return s.fail(status.KindReadOnly, status.CodeReadOnly,
		fmt.Sprintf("%s is read-only and cannot be %s", s.name, verb))
}

func (s *Service[D]) missingKey() status.Status {
	return s.fail(status.KindMappingBuild, status.CodeMissingKey,
		fmt.Sprintf("a key is required to find the %s", s.name))
}

func (s *Service[D]) invalidInput(op string) status.Status {
	return s.fail(status.KindMappingBuild, status.CodeInvalidInput, op+" called with a nil DTO")
}

func (s *Service[D]) persistence(err error) status.Status {
	s.logger.Warn("persistence failed", "entity", s.link.Entity.Shape.Name, "error", err)

	return s.fail(status.KindPersistence, status.CodeDatabase, err.Error())
}

func isZeroKey(key any) bool {
	if key == nil {
		return true
	}

	v := reflect.ValueOf(key)
	if v.Kind() == reflect.String {
		return strings.TrimSpace(v.String()) == ""
	}

	return v.IsZero()
}

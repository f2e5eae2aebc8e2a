package registry

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"dto-services/entity"
	"dto-services/internal/match"
	"dto-services/internal/plan"
	"dto-services/internal/shape"
	"dto-services/internal/style"
	"dto-services/status"
)

// Inspector describes entity and DTO types. *shape.Inspector implements it.
type Inspector interface {
	Inspect(t reflect.Type) (*shape.Shape, error)
	InspectDto(t reflect.Type, entityName string) (*shape.Shape, error)
}

// Entry is the cached classification of one entity type.
type Entry struct {
	Type     reflect.Type
	Shape    *shape.Shape
	Decision style.Decision
	// DecidedBy is the DTO type whose registration computed this entry.
	DecidedBy reflect.Type
	// Status is invalid when the entity cannot be used.
	Status status.Status
}

// Style returns the decided construction style.
func (e *Entry) Style() style.Style {
	return e.Decision.Style
}

// Link is the cached registration of one DTO type.
type Link struct {
	DtoType reflect.Type
	Dto     *shape.Shape
	Entity  *Entry
	Config  plan.MappingConfig
	// DtoKey is the DTO property holding the entity key, if any.
	DtoKey *shape.Property
	// Status is invalid when registration failed.
	Status status.Status
}

// Valid reports whether the DTO can be used.
func (l *Link) Valid() bool {
	return l.Status.IsValid()
}

// Registry caches entries and links. The zero value is not usable; call New.
type Registry struct {
	inspector Inspector
	builder   plan.Builder
	keyNames  []string
	logger    *slog.Logger

	entities sync.Map // reflect.Type -> *Entry
	links    sync.Map // reflect.Type -> *Link
	flight   singleflight.Group
}

// Option configures a Registry.
type Option func(*Registry)

// WithInspector replaces the default shape inspector.
func WithInspector(i Inspector) Option {
	return func(r *Registry) {
		r.inspector = i
	}
}

// WithLogger sets the logger. Registration results are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithNameMode selects how DTO properties are paired with entity properties
// and mechanism parameters.
func WithNameMode(m match.NameMode) Option {
	return func(r *Registry) {
		r.builder.Names = m
	}
}

// WithKeyNames sets the key property names of the default inspector.
func WithKeyNames(names ...string) Option {
	return func(r *Registry) {
		r.keyNames = names
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}

	if r.inspector == nil {
		r.inspector = shape.NewInspector(shape.WithKeyNames(r.keyNames...))
	}

	return r
}

// NameMode returns the configured name matching mode.
func (r *Registry) NameMode() match.NameMode {
	return r.builder.Names
}

// Register registers a DTO type (or pointer to one) and returns the
// registration status. Registering the same type again returns the cached
// status without recomputing anything, except after a classification failure
// which is retried since a later DTO may settle the entity style.
func (r *Registry) Register(dto reflect.Type) status.Status {
	return r.link(dto).Status
}

// RegisterDto registers D.
func RegisterDto[D any](r *Registry) status.Status {
	return r.Register(reflect.TypeFor[D]())
}

// RegisterAll registers every type in order and combines the statuses so
// that every failure is reported at once.
func (r *Registry) RegisterAll(types ...reflect.Type) status.Status {
	var st status.Status
	for _, t := range types {
		st = status.Combine(st, r.Register(t))
	}

	if st.IsValid() {
		st = st.WithMessage(fmt.Sprintf("Registered %d DTO types", len(types)))
	}

	return st
}

// Lookup returns the link of a registered DTO type, valid or not.
func (r *Registry) Lookup(dto reflect.Type) (*Link, bool) {
	l, ok := r.links.Load(deref(dto))
	if !ok {
		return nil, false
	}

	return l.(*Link), true
}

// Entry returns the cached entry of an entity type.
func (r *Registry) Entry(ent reflect.Type) (*Entry, bool) {
	e, ok := r.entities.Load(deref(ent))
	if !ok {
		return nil, false
	}

	return e.(*Entry), true
}

// Links returns every registered link ordered by DTO type name.
func (r *Registry) Links() []*Link {
	var out []*Link

	r.links.Range(func(_, v any) bool {
		out = append(out, v.(*Link))

		return true
	})

	slices.SortFunc(out, func(a, b *Link) int {
		return cmp.Compare(a.DtoType.String(), b.DtoType.String())
	})

	return out
}

func (r *Registry) link(dto reflect.Type) *Link {
	dto = deref(dto)

	if l, ok := r.links.Load(dto); ok {
		return l.(*Link)
	}

	v, _, _ := r.flight.Do(flightKey("dto", dto), func() (any, error) {
		if l, ok := r.links.Load(dto); ok {
			return l, nil
		}

		l := r.buildLink(dto)
		if l.Entity == nil || l.Entity.Status.IsValid() || l.Entity.Status.HasKind(status.KindShape) {
			r.links.Store(dto, l)
		}

		return l, nil
	})

	return v.(*Link)
}

func (r *Registry) entry(ent, dto reflect.Type, info entity.LinkInfo) *Entry {
	if e, ok := r.entities.Load(ent); ok {
		return e.(*Entry)
	}

	v, _, _ := r.flight.Do(flightKey("entity", ent), func() (any, error) {
		if e, ok := r.entities.Load(ent); ok {
			return e, nil
		}

		e := r.classify(ent, dto, info)

		// A classification failure depends on the DTO; the next DTO retries.
		if e.Status.IsValid() || e.Status.HasKind(status.KindShape) {
			r.entities.Store(ent, e)
		}

		return e, nil
	})

	return v.(*Entry)
}

func (r *Registry) classify(ent, dto reflect.Type, info entity.LinkInfo) *Entry {
	e := &Entry{Type: ent, DecidedBy: dto}

	es, err := r.inspector.Inspect(ent)
	if err != nil {
		e.Status = status.FromError(status.KindShape, status.CodeNotStruct, err)
		r.logger.Warn("entity rejected", "entity", ent.String(), "error", e.Status.String())

		return e
	}

	e.Shape = es

	ds, err := r.inspector.InspectDto(dto, es.Name)
	if err != nil {
		e.Status = status.FromError(status.KindShape, status.CodeNotStruct, err)

		return e
	}

	d, err := style.Decode(es, ds, style.Options{Names: r.builder.Names, Create: info.Create})
	if err != nil {
		e.Status = status.FromError(status.KindClassification, status.CodeNoStrategy, err)
		r.logger.Warn("entity not classified", "entity", es.Name, "dto", dto.String(), "error", e.Status.String())

		return e
	}

	e.Decision = d
	r.logger.Debug("entity classified", "entity", es.Name, "style", d.Style.String(), "dto", dto.String())

	return e
}

func (r *Registry) buildLink(dto reflect.Type) *Link {
	l := &Link{DtoType: dto}

	info, err := entity.ResolveLink(dto)
	if err != nil {
		l.Status = status.Status{}.WithError(status.ErrorDetail{
			Kind:    status.KindClassification,
			Code:    linkErrorCode(err),
			Message: err.Error(),
			Entity:  dto.Name(),
		})

		return l
	}

	l.Entity = r.entry(info.Entity, dto, info)
	if !l.Entity.Status.IsValid() {
		l.Status = l.Entity.Status

		return l
	}

	ds, err := r.inspector.InspectDto(dto, l.Entity.Shape.Name)
	if err != nil {
		l.Status = status.FromError(status.KindShape, status.CodeNotStruct, err)

		return l
	}

	l.Dto = ds
	l.DtoKey = ds.Key

	d, st := r.decisionFor(l.Entity, ds, info)
	if !st.IsValid() {
		l.Status = st

		return l
	}

	l.Config, l.Status = r.builder.Build(d, l.Entity.Shape, ds)
	if l.Status.IsValid() {
		r.logger.Debug("dto registered",
			"dto", dto.String(),
			"entity", l.Entity.Shape.Name,
			"style", d.Style.String(),
			"save", l.Config.Save.Kind.String(),
			"update", l.Config.Update.Kind.String())
	} else {
		r.logger.Warn("dto rejected", "dto", dto.String(), "error", l.Status.String())
	}

	return l
}

// decisionFor returns the cached decision, or the mechanism a later DTO
// names explicitly as long as it keeps the cached style.
func (r *Registry) decisionFor(e *Entry, ds *shape.Shape, info entity.LinkInfo) (style.Decision, status.Status) {
	d := e.Decision
	if info.Create == "" || (d.Mechanism != nil && d.Mechanism.Name == info.Create) {
		return d, status.Status{}
	}

	named, err := style.Decode(e.Shape, ds, style.Options{Names: r.builder.Names, Create: info.Create})
	if err != nil {
		return d, status.FromError(status.KindClassification, status.CodeMechanismMismatch, err)
	}

	if named.Style != d.Style {
		return d, status.Status{}.WithError(status.ErrorDetail{
			Kind: status.KindMappingBuild,
			Code: status.CodeStyleMismatch,
			Message: fmt.Sprintf("%s names %s (%s) but %s is already registered as %s by %s",
				ds.Name, info.Create, named.Style, e.Shape.Name, d.Style, e.DecidedBy),
			Entity: e.Shape.Name,
		})
	}

	return named, status.Status{}
}

func linkErrorCode(err error) string {
	if errors.Is(err, entity.ErrMultipleLinks) {
		return status.CodeMultipleLinks
	}

	return status.CodeNoLink
}

func flightKey(kind string, t reflect.Type) string {
	return kind + ":" + t.PkgPath() + "/" + t.String()
}

func deref(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}

package mapper

import (
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-services/entity"
	"dto-services/internal/plan"
	"dto-services/internal/shape"
	"dto-services/internal/style"
	"dto-services/status"
)

type Meta struct {
	Tags string
}

type Author struct {
	*Meta
	ID     int
	Name   string
	Email  *string
	Rating int32
}

type AuthorDto struct {
	entity.Link[Author]
	ID     int
	Name   string
	Email  string
	Rating int64
	Tags   string
	Extra  bool
}

type Gadget struct {
	ID    int
	Label string
	Size  int
}

var errEmptyLabel = errors.New("label must not be empty")

func NewGadget(label string, size int) (*Gadget, error) {
	if label == "" {
		return nil, errEmptyLabel
	}

	return &Gadget{Label: label, Size: size}, nil
}

func MakeGadget(label *string) (*Gadget, status.Status) {
	if label == nil {
		return nil, status.Fail(status.KindConstruction, "", "The string should not be null.")
	}

	return &Gadget{Label: *label}, status.Ok("made")
}

func Ghost(label string) (*Gadget, status.Status) { return nil, status.Status{} }

func ValueGadget(label string) Gadget { return Gadget{Label: label} }

func (g *Gadget) Resize(size int) error {
	if size < 0 {
		return errors.New("size must be positive")
	}

	g.Size = size

	return nil
}

func (g *Gadget) Relabel(label string) status.Status {
	g.Label = label

	return status.Ok("relabelled")
}

func (Gadget) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Ctor("NewGadget", NewGadget, "label", "size"),
		entity.Factory("MakeGadget", MakeGadget, "label"),
		entity.Factory("Ghost", Ghost, "label"),
		entity.Ctor("ValueGadget", ValueGadget, "label"),
		entity.Updater("Resize", "size"),
		entity.Updater("Relabel", "label"),
	}
}

type GadgetDto struct {
	entity.Link[Gadget]
	ID    int
	Label string
	Size  int
}

type PtrGadgetDto struct {
	entity.Link[Gadget]
	Label *string
}

func shapes(t *testing.T, ent, dto reflect.Type) (*shape.Shape, *shape.Shape) {
	t.Helper()

	insp := shape.NewInspector()

	es, err := insp.Inspect(ent)
	require.NoError(t, err)

	ds, err := insp.InspectDto(dto, es.Name)
	require.NoError(t, err)

	return es, ds
}

func binding(t *testing.T, ent, dto reflect.Type, mechanism string) *plan.BindingPlan {
	t.Helper()

	es, ds := shapes(t, ent, dto)

	m, ok := es.Mechanism(mechanism)
	require.True(t, ok)

	// Updaters bind exactly like constructors.
	d := style.Decision{Style: style.DDDConstructor, Mechanism: m}
	if m.Kind == entity.MechanismFactory {
		d.Style = style.DDDStaticFactory
	}

	res, st := plan.Builder{}.BuildSave(d, es, ds)
	require.True(t, st.IsValid(), spew.Sdump(st))

	return res.Binding
}

func TestApplyCopy_RoundTrip(t *testing.T) {
	es, ds := shapes(t, reflect.TypeFor[Author](), reflect.TypeFor[AuthorDto]())
	b := plan.Builder{}

	save, st := b.BuildSave(style.Decision{Style: style.Standard}, es, ds)
	require.True(t, st.IsValid())

	read := b.BuildRead(es, ds)

	in := AuthorDto{ID: 7, Name: "Ursula", Email: "ul@example.com", Rating: 5, Tags: "scifi", Extra: true}

	var ent Author
	ApplyCopy(save.Copy, reflect.ValueOf(&in), reflect.ValueOf(&ent))

	require.NotNil(t, ent.Email)
	assert.Equal(t, "ul@example.com", *ent.Email)
	assert.Equal(t, int32(5), ent.Rating)
	require.NotNil(t, ent.Meta, "embedded pointer allocated on write")
	assert.Equal(t, "scifi", ent.Tags)
	assert.Zero(t, ent.ID, "key is never copied by a save plan")

	var out AuthorDto
	ApplyCopy(&read, reflect.ValueOf(&ent), reflect.ValueOf(&out))

	// Every DTO property with an entity counterpart comes back unchanged.
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.Rating, out.Rating)
	assert.Equal(t, in.Tags, out.Tags)
	assert.False(t, out.Extra)
}

func TestApplyCopy_NilSources(t *testing.T) {
	es, ds := shapes(t, reflect.TypeFor[Author](), reflect.TypeFor[AuthorDto]())
	read := plan.Builder{}.BuildRead(es, ds)

	out := AuthorDto{Tags: "keep", Email: "keep"}
	ApplyCopy(&read, reflect.ValueOf(&Author{Name: "x"}), reflect.ValueOf(&out))

	assert.Equal(t, "x", out.Name)
	assert.Equal(t, "keep", out.Tags, "nil embedded pointer is skipped")
	assert.Empty(t, out.Email, "nil pointer dereferences to the zero value")
}

func TestApplyCopy_WrongTypesPanics(t *testing.T) {
	es, ds := shapes(t, reflect.TypeFor[Author](), reflect.TypeFor[AuthorDto]())
	read := plan.Builder{}.BuildRead(es, ds)

	assert.Panics(t, func() {
		ApplyCopy(&read, reflect.ValueOf(&Gadget{}), reflect.ValueOf(&AuthorDto{}))
	})
}

func TestInvoke_Constructor(t *testing.T) {
	b := binding(t, reflect.TypeFor[Gadget](), reflect.TypeFor[GadgetDto](), "NewGadget")

	ent, st := Invoke(b, reflect.ValueOf(&GadgetDto{Label: "lamp", Size: 3}))
	require.True(t, st.IsValid())
	assert.Equal(t, &Gadget{Label: "lamp", Size: 3}, ent.Interface())

	_, st = Invoke(b, reflect.ValueOf(GadgetDto{}))
	require.False(t, st.IsValid())
	assert.Equal(t, status.KindConstruction, st.Errors[0].Kind)
	assert.Equal(t, "label must not be empty", st.AllErrors())
	assert.Equal(t, "Gadget", st.Errors[0].Entity)
}

func TestInvoke_ValueConstructor(t *testing.T) {
	b := binding(t, reflect.TypeFor[Gadget](), reflect.TypeFor[GadgetDto](), "ValueGadget")

	ent, st := Invoke(b, reflect.ValueOf(&GadgetDto{Label: "desk"}))
	require.True(t, st.IsValid())
	assert.Equal(t, "desk", ent.Interface().(*Gadget).Label)
}

func TestInvoke_Factory(t *testing.T) {
	b := binding(t, reflect.TypeFor[Gadget](), reflect.TypeFor[PtrGadgetDto](), "MakeGadget")

	label := "chair"
	ent, st := Invoke(b, reflect.ValueOf(&PtrGadgetDto{Label: &label}))
	require.True(t, st.IsValid())
	assert.Equal(t, "made", st.Message)
	assert.Equal(t, "chair", ent.Interface().(*Gadget).Label)

	_, st = Invoke(b, reflect.ValueOf(&PtrGadgetDto{}))
	require.False(t, st.IsValid())
	assert.Equal(t, "The string should not be null.", st.AllErrors())
}

func TestInvoke_NilEntity(t *testing.T) {
	b := binding(t, reflect.TypeFor[Gadget](), reflect.TypeFor[GadgetDto](), "Ghost")

	_, st := Invoke(b, reflect.ValueOf(&GadgetDto{Label: "x"}))
	require.False(t, st.IsValid())
	assert.True(t, st.HasCode(status.CodeNilEntity))
}

func TestCallUpdater(t *testing.T) {
	g := &Gadget{Label: "lamp", Size: 1}

	resize := binding(t, reflect.TypeFor[Gadget](), reflect.TypeFor[GadgetDto](), "Resize")
	require.Equal(t, "Resize", resize.Mechanism.Name)

	st := CallUpdater(resize, reflect.ValueOf(g), reflect.ValueOf(&GadgetDto{Size: 9}))
	require.True(t, st.IsValid())
	assert.Equal(t, 9, g.Size)

	st = CallUpdater(resize, reflect.ValueOf(g), reflect.ValueOf(&GadgetDto{Size: -1}))
	assert.Equal(t, "size must be positive", st.AllErrors())
	assert.Equal(t, 9, g.Size)
}

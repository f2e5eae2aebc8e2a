package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dto-services/entity"
	"dto-services/internal/plan"
	"dto-services/internal/style"
	"dto-services/internal/testutil"
	"dto-services/status"
)

type Author struct {
	ID    int
	Name  string
	Email string
}

type AuthorDto struct {
	entity.Link[Author]
	ID    int
	Name  string
	Email string
}

type AuthorNameDto struct {
	entity.Link[Author]
	ID   int
	Name string
}

type Book struct {
	BookID int
	Title  string `crud:"readonly"`
	Price  int64  `crud:"readonly"`
}

func NewBook(title string, price int64) *Book { return &Book{Title: title, Price: price} }

func PublishBook(title string) (*Book, status.Status) { return &Book{Title: title}, status.Status{} }

func (Book) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Ctor("NewBook", NewBook, "title", "price"),
		entity.Factory("PublishBook", PublishBook, "title"),
		entity.Updater("ChangePrice", "price"),
	}
}

func (b *Book) ChangePrice(price int64) { b.Price = price }

type CreateBookDto struct {
	entity.Link[Book] `crud:"create=NewBook"`
	BookID            int
	Title             string
	Price             int64
}

type ChangePriceDto struct {
	entity.Link[Book]
	BookID int
	Price  int64
}

type PublishBookDto struct {
	entity.Link[Book] `crud:"create=PublishBook"`
	Title             string
}

type TitleDto struct {
	entity.Link[Book]
	Title string
}

type Shelf struct {
	ID    int
	Label string `crud:"readonly"`
	Slots int    `crud:"readonly"`
}

func NewShelf(label string, slots int) (*Shelf, error) { return &Shelf{Label: label, Slots: slots}, nil }

func (Shelf) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Ctor("NewShelf", NewShelf, "label", "slots"),
		entity.Updater("Resize", "slots"),
	}
}

func (s *Shelf) Resize(slots int) { s.Slots = slots }

type NewShelfDto struct {
	entity.Link[Shelf]
	ID    int
	Label string
	Slots int
}

type ResizeShelfDto struct {
	entity.Link[Shelf]
	ID    int
	Slots int
}

type Unlinked struct {
	Name string
}

type Empty struct {
	secret int
}

type EmptyDto struct {
	entity.Link[Empty]
	Name string
}

type OtherEmptyDto struct {
	entity.Link[Empty]
}

func newRegistry(t *testing.T) (*Registry, *testutil.CountingInspector) {
	t.Helper()

	insp := testutil.NewCountingInspector()

	return New(WithInspector(insp), WithLogger(testutil.NewTestLogger(t))), insp
}

func TestRegister_Standard(t *testing.T) {
	r, _ := newRegistry(t)

	st := RegisterDto[AuthorDto](r)
	require.True(t, st.IsValid(), st.String())

	l, ok := r.Lookup(reflect.TypeFor[*AuthorDto]())
	require.True(t, ok)
	assert.True(t, l.Valid())
	assert.Equal(t, style.Standard, l.Entity.Style())
	assert.Equal(t, plan.SaveCopy, l.Config.Save.Kind)
	assert.Equal(t, "ID", l.DtoKey.Name)
	assert.Equal(t, reflect.TypeFor[AuthorDto](), l.Entity.DecidedBy)
}

func TestRegister_InspectsEntityOnce(t *testing.T) {
	r, insp := newRegistry(t)

	require.True(t, RegisterDto[AuthorDto](r).IsValid())
	require.True(t, RegisterDto[AuthorNameDto](r).IsValid())
	require.True(t, RegisterDto[AuthorDto](r).IsValid())

	assert.Equal(t, 1, insp.Count(reflect.TypeFor[Author]()))

	a, _ := r.Lookup(reflect.TypeFor[AuthorDto]())
	b, _ := r.Lookup(reflect.TypeFor[AuthorNameDto]())
	assert.Same(t, a.Entity, b.Entity)
	assert.Equal(t, a.Entity.Style(), b.Entity.Style())
}

func TestRegister_Concurrent(t *testing.T) {
	r, insp := newRegistry(t)

	var g errgroup.Group
	for i := range 64 {
		g.Go(func() error {
			if i%2 == 0 {
				return RegisterDto[AuthorDto](r).Err()
			}

			return RegisterDto[AuthorNameDto](r).Err()
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, 1, insp.Count(reflect.TypeFor[Author]()))
	assert.Len(t, r.Links(), 2)
}

func TestRegister_ConstructorAndUpdateOnlyView(t *testing.T) {
	r, _ := newRegistry(t)

	st := r.RegisterAll(reflect.TypeFor[CreateBookDto](), reflect.TypeFor[ChangePriceDto]())
	require.True(t, st.IsValid(), st.String())
	assert.Equal(t, "Registered 2 DTO types", st.Message)

	create, _ := r.Lookup(reflect.TypeFor[CreateBookDto]())
	assert.Equal(t, style.DDDConstructor, create.Entity.Style())
	assert.Equal(t, "NewBook", create.Config.Save.Binding.Mechanism.Name)

	change, _ := r.Lookup(reflect.TypeFor[ChangePriceDto]())
	assert.False(t, change.Config.Save.Supported())
	assert.Equal(t, plan.UpdateUpdater, change.Config.Update.Kind)
	assert.Equal(t, "BookID", change.DtoKey.Name)
}

func TestRegister_StyleMismatch(t *testing.T) {
	r, _ := newRegistry(t)

	require.True(t, RegisterDto[CreateBookDto](r).IsValid())

	st := RegisterDto[PublishBookDto](r)
	require.False(t, st.IsValid())
	assert.True(t, st.HasCode(status.CodeStyleMismatch))
}

func TestRegister_UnboundOnLaterDto(t *testing.T) {
	r, _ := newRegistry(t)

	require.True(t, RegisterDto[CreateBookDto](r).IsValid())

	st := RegisterDto[TitleDto](r)
	require.False(t, st.IsValid())
	assert.True(t, st.HasKind(status.KindMappingBuild))
	assert.True(t, st.HasCode(status.CodeUnboundParameter))
}

func TestRegister_Failures(t *testing.T) {
	r, insp := newRegistry(t)

	t.Run("no link", func(t *testing.T) {
		st := RegisterDto[Unlinked](r)
		assert.True(t, st.HasCode(status.CodeNoLink))
		assert.True(t, st.HasKind(status.KindClassification))
	})

	t.Run("shape error cached", func(t *testing.T) {
		st := RegisterDto[EmptyDto](r)
		assert.True(t, st.HasKind(status.KindShape))

		again := RegisterDto[OtherEmptyDto](r)
		assert.Equal(t, st.Errors, again.Errors)
		assert.Equal(t, 1, insp.Count(reflect.TypeFor[Empty]()))
	})

	t.Run("register all reports every failure", func(t *testing.T) {
		st := r.RegisterAll(reflect.TypeFor[Unlinked](), reflect.TypeFor[EmptyDto](), reflect.TypeFor[AuthorDto]())
		assert.Len(t, st.Errors, 2)
		assert.Empty(t, st.Message)
	})
}

func TestRegister_FirstDtoDecidesStyle(t *testing.T) {
	r, _ := newRegistry(t)

	// TitleDto binds PublishBook but not NewBook.
	st := RegisterDto[TitleDto](r)
	require.True(t, st.IsValid(), st.String())

	e, ok := r.Entry(reflect.TypeFor[Book]())
	require.True(t, ok)
	assert.Equal(t, style.DDDStaticFactory, e.Style())
	assert.Equal(t, "PublishBook", e.Decision.Mechanism.Name)

	assert.True(t, RegisterDto[CreateBookDto](r).HasCode(status.CodeStyleMismatch))
}

func TestRegister_UpdateOnlyDtoFirstKeepsConstructor(t *testing.T) {
	r, _ := newRegistry(t)

	st := r.RegisterAll(reflect.TypeFor[ResizeShelfDto](), reflect.TypeFor[NewShelfDto]())
	require.True(t, st.IsValid(), st.String())

	e, ok := r.Entry(reflect.TypeFor[Shelf]())
	require.True(t, ok)
	assert.Equal(t, style.DDDConstructor, e.Style())
	assert.Equal(t, "NewShelf", e.Decision.Mechanism.Name)
	assert.Equal(t, reflect.TypeFor[ResizeShelfDto](), e.DecidedBy)

	resize, _ := r.Lookup(reflect.TypeFor[ResizeShelfDto]())
	assert.False(t, resize.Config.Save.Supported())
	assert.Equal(t, plan.UpdateUpdater, resize.Config.Update.Kind)

	create, _ := r.Lookup(reflect.TypeFor[NewShelfDto]())
	assert.Equal(t, plan.SaveBinding, create.Config.Save.Kind)
	assert.Equal(t, "NewShelf", create.Config.Save.Binding.Mechanism.Name)
}

func TestRegister_UnmatchedBuildersRetried(t *testing.T) {
	r, _ := newRegistry(t)

	// ChangePriceDto matches neither NewBook nor PublishBook.
	st := RegisterDto[ChangePriceDto](r)
	require.False(t, st.IsValid())
	assert.True(t, st.HasCode(status.CodeNoStrategy))

	_, ok := r.Entry(reflect.TypeFor[Book]())
	assert.False(t, ok)

	require.True(t, RegisterDto[CreateBookDto](r).IsValid())

	st = RegisterDto[ChangePriceDto](r)
	require.True(t, st.IsValid(), st.String())

	change, _ := r.Lookup(reflect.TypeFor[ChangePriceDto]())
	assert.Equal(t, style.DDDConstructor, change.Entity.Style())
	assert.Equal(t, plan.UpdateUpdater, change.Config.Update.Kind)
}

func TestLinks_Sorted(t *testing.T) {
	r, _ := newRegistry(t)

	RegisterDto[AuthorNameDto](r)
	RegisterDto[AuthorDto](r)

	links := r.Links()
	require.Len(t, links, 2)
	assert.Equal(t, "registry.AuthorDto", links[0].DtoType.String())
	assert.Equal(t, "registry.AuthorNameDto", links[1].DtoType.String())

	_, ok := r.Lookup(reflect.TypeFor[Unlinked]())
	assert.False(t, ok)
}

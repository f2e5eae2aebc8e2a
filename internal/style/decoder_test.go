package style

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-services/entity"
	"dto-services/internal/match"
	"dto-services/internal/shape"
	"dto-services/status"
)

type Plain struct {
	ID   int
	Name string
}

type Summary struct {
	ID    int
	Title string `crud:"readonly"`
}

type Guarded struct {
	ID    int
	Label string
}

func (Guarded) Construction() []entity.Mechanism {
	return []entity.Mechanism{entity.Updater("Relabel", "label")}
}

func (g *Guarded) Relabel(label string) { g.Label = label }

type Account struct {
	ID    int
	Owner string
	Limit int64
}

func NewAccount(owner string) *Account                   { return &Account{Owner: owner} }
func NewLimited(owner string, limit int) *Account        { return &Account{Owner: owner, Limit: int64(limit)} }
func OpenAccount(owner string) (*Account, status.Status) { return &Account{Owner: owner}, status.Status{} }

func (Account) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Default(),
		entity.Ctor("NewAccount", NewAccount, "owner"),
		entity.Ctor("NewLimited", NewLimited, "owner", "limit"),
		entity.Factory("OpenAccount", OpenAccount, "owner"),
		entity.Updater("Rename", "owner"),
	}
}

func (a *Account) Rename(owner string) { a.Owner = owner }

type OwnerDto struct {
	entity.Link[Account]
	Owner string
}

type OwnerLimitDto struct {
	entity.Link[Account]
	Owner string
	Limit int
}

type LimitOnlyDto struct {
	entity.Link[Account]
	Limit int
}

type SnakeDto struct {
	entity.Link[Account]
	Owner_Name string
}

type Factored struct {
	ID   int
	Code string
}

func MakeA(code string) (*Factored, status.Status) { return &Factored{Code: code}, status.Status{} }
func MakeB(code string) (*Factored, status.Status) { return &Factored{Code: code}, status.Status{} }

func (Factored) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Factory("MakeA", MakeA, "code"),
		entity.Factory("MakeB", MakeB, "code"),
	}
}

type CodeDto struct {
	entity.Link[Factored]
	Code string
}

type AnyDto struct {
	Name  string
	Title string
	Label string
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

func TestDecode_Styles(t *testing.T) {
	tests := []struct {
		name      string
		ent, dto  reflect.Type
		want      Style
		mechanism string
	}{
		{"standard", reflect.TypeFor[Plain](), reflect.TypeFor[AnyDto](), Standard, ""},
		{"read only", reflect.TypeFor[Summary](), reflect.TypeFor[AnyDto](), ReadOnly, ""},
		{"falls back to copy", reflect.TypeFor[Account](), reflect.TypeFor[LimitOnlyDto](), Standard, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es, ds := shapes(t, tt.ent, tt.dto)

			d, err := Decode(es, ds, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Style)
			assert.Nil(t, d.Mechanism)
		})
	}
}

func TestDecode_Constructor(t *testing.T) {
	es, ds := shapes(t, reflect.TypeFor[Account](), reflect.TypeFor[OwnerLimitDto]())

	// OwnerLimitDto matches NewAccount, NewLimited and OpenAccount.
	_, err := Decode(es, ds, Options{})
	assert.ErrorIs(t, err, status.NewError(status.KindClassification, status.CodeAmbiguousMechanism, ""))

	d, err := Decode(es, ds, Options{Create: "NewLimited"})
	require.NoError(t, err)
	assert.Equal(t, DDDConstructor, d.Style)
	assert.Equal(t, "NewLimited", d.Mechanism.Name)
}

func TestDecode_Factory(t *testing.T) {
	es, ds := shapes(t, reflect.TypeFor[Account](), reflect.TypeFor[OwnerDto]())

	d, err := Decode(es, ds, Options{Create: "OpenAccount"})
	require.NoError(t, err)
	assert.Equal(t, DDDStaticFactory, d.Style)
	assert.Equal(t, "OpenAccount", d.Mechanism.Name)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ent, dto reflect.Type
		create   string
		code     string
	}{
		{"ambiguous factory", reflect.TypeFor[Factored](), reflect.TypeFor[CodeDto](), "", status.CodeAmbiguousFactory},
		{"ambiguous mechanism", reflect.TypeFor[Account](), reflect.TypeFor[OwnerDto](), "", status.CodeAmbiguousMechanism},
		{"no strategy", reflect.TypeFor[Guarded](), reflect.TypeFor[AnyDto](), "", status.CodeNoStrategy},
		{"unknown mechanism", reflect.TypeFor[Account](), reflect.TypeFor[OwnerDto](), "Nope", status.CodeUnknownMechanism},
		{"named updater", reflect.TypeFor[Account](), reflect.TypeFor[OwnerDto](), "Rename", status.CodeMechanismMismatch},
		{"named mismatch", reflect.TypeFor[Account](), reflect.TypeFor[OwnerDto](), "NewLimited", status.CodeMechanismMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es, ds := shapes(t, tt.ent, tt.dto)

			_, err := Decode(es, ds, Options{Create: tt.create})
			require.Error(t, err)
			assert.ErrorIs(t, err, status.ErrClassification)
			assert.ErrorIs(t, err, status.NewError(status.KindClassification, tt.code, ""))
		})
	}
}

func TestDecode_AmbiguousConstructor(t *testing.T) {
	es := &shape.Shape{
		Name:       "TwoCtors",
		Properties: []shape.Property{{Name: "Name", Type: reflect.TypeFor[string](), Settable: true}},
		Mechanisms: []entity.Signature{
			{Mechanism: entity.Ctor("A", nil, "name"), In: []reflect.Type{reflect.TypeFor[string]()}},
			{Mechanism: entity.Ctor("B", nil, "name"), In: []reflect.Type{reflect.TypeFor[string]()}},
		},
	}
	ds := &shape.Shape{
		Name:       "TwoCtorsDto",
		Properties: []shape.Property{{Name: "Name", Type: reflect.TypeFor[string]()}},
	}

	_, err := Decode(es, ds, Options{})
	assert.ErrorIs(t, err, status.NewError(status.KindClassification, status.CodeAmbiguousConstructor, ""))
}

func TestDecode_NameModes(t *testing.T) {
	es := &shape.Shape{
		Name:       "Account",
		Properties: []shape.Property{{Name: "OwnerName", Type: reflect.TypeFor[string](), Settable: true}},
		Mechanisms: []entity.Signature{
			{Mechanism: entity.Ctor("NewAccount", nil, "ownerName"), In: []reflect.Type{reflect.TypeFor[string]()}},
		},
	}
	_, ds := shapes(t, reflect.TypeFor[Plain](), reflect.TypeFor[SnakeDto]())

	assert.False(t, Matches(es.Mechanisms[0], ds, match.NamesFold))
	assert.True(t, Matches(es.Mechanisms[0], ds, match.NamesNormalized))

	d, err := Decode(es, ds, Options{Names: match.NamesNormalized})
	require.NoError(t, err)
	assert.Equal(t, DDDConstructor, d.Style)
}

func TestDecode_UnmatchedBuilder(t *testing.T) {
	ctor := entity.Signature{
		Mechanism: entity.Ctor("NewTicket", nil, "title"),
		In:        []reflect.Type{reflect.TypeFor[string]()},
	}
	fact := entity.Signature{
		Mechanism: entity.Factory("OpenTicket", nil, "title"),
		In:        []reflect.Type{reflect.TypeFor[string]()},
	}
	closeTicket := entity.Signature{
		Mechanism: entity.Updater("Close", "closed"),
		In:        []reflect.Type{reflect.TypeFor[bool]()},
	}
	props := []shape.Property{
		{Name: "ID", Type: reflect.TypeFor[int](), Key: true},
		{Name: "Title", Type: reflect.TypeFor[string]()},
	}
	ds := &shape.Shape{
		Name:       "CloseTicketDto",
		Properties: []shape.Property{{Name: "Closed", Type: reflect.TypeFor[bool]()}},
	}

	t.Run("single builder keeps its style", func(t *testing.T) {
		es := &shape.Shape{Name: "Ticket", Properties: props, Mechanisms: []entity.Signature{ctor, closeTicket}}

		d, err := Decode(es, ds, Options{})
		require.NoError(t, err)
		assert.Equal(t, DDDConstructor, d.Style)
		assert.Equal(t, "NewTicket", d.Mechanism.Name)
	})

	t.Run("single factory", func(t *testing.T) {
		es := &shape.Shape{Name: "Ticket", Properties: props, Mechanisms: []entity.Signature{fact}}

		d, err := Decode(es, ds, Options{})
		require.NoError(t, err)
		assert.Equal(t, DDDStaticFactory, d.Style)
	})

	t.Run("several builders", func(t *testing.T) {
		es := &shape.Shape{Name: "Ticket", Properties: props, Mechanisms: []entity.Signature{ctor, fact}}

		_, err := Decode(es, ds, Options{})
		assert.ErrorIs(t, err, status.NewError(status.KindClassification, status.CodeNoStrategy, ""))
	})

	t.Run("no builder", func(t *testing.T) {
		es := &shape.Shape{Name: "Ticket", Properties: props, Mechanisms: []entity.Signature{closeTicket}}

		d, err := Decode(es, ds, Options{})
		require.NoError(t, err)
		assert.Equal(t, ReadOnly, d.Style)
	})
}

func TestDecode_Deterministic(t *testing.T) {
	es, ds := shapes(t, reflect.TypeFor[Account](), reflect.TypeFor[OwnerLimitDto]())

	first, err := Decode(es, ds, Options{Create: "NewLimited"})
	require.NoError(t, err)

	for range 20 {
		again, err := Decode(es, ds, Options{Create: "NewLimited"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestStyle_String(t *testing.T) {
	assert.Equal(t, "DDDStaticFactory", DDDStaticFactory.String())
	assert.Equal(t, "ReadOnly", ReadOnly.String())
	assert.Equal(t, "Style(7)", Style(7).String())
	assert.True(t, DDDConstructor.Builds())
	assert.False(t, ReadOnly.Builds())
}

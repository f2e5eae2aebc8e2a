package shape

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-services/entity"
	"dto-services/internal/match"
	"dto-services/status"
)

type Audit struct {
	CreatedBy string
}

type hidden struct {
	Secret string
}

type Person struct {
	Audit
	*hidden
	ID       int
	Name     string
	Nickname string `crud:"readonly"`
	Notes    string `crud:"-"`
	OnChange func()
	Events   chan int
	Any      any
	age      int
}

type Order struct {
	OrderID int
	Total   int64
}

type Tagged struct {
	Code string `crud:"key"`
	ID   int
}

type Empty struct {
	hidden string
}

type Ledger struct {
	LedgerID int
	Owner    string
}

func NewLedger(owner string) *Ledger { return &Ledger{Owner: owner} }

func (Ledger) Construction() []entity.Mechanism {
	return []entity.Mechanism{
		entity.Ctor("NewLedger", NewLedger, "owner"),
		entity.Updater("Transfer", "owner"),
	}
}

func (l *Ledger) Transfer(owner string) { l.Owner = owner }

type Broken struct {
	Name string
}

func (*Broken) Construction() []entity.Mechanism {
	return []entity.Mechanism{entity.Ctor("NewBroken", 42)}
}

type Twice struct {
	Name string
}

func (Twice) Construction() []entity.Mechanism {
	return []entity.Mechanism{entity.Default(), entity.Default()}
}

type PersonDto struct {
	entity.Link[Person]
	ID   int
	Name string
}

func TestInspect_Properties(t *testing.T) {
	s, err := NewInspector().Inspect(reflect.TypeFor[Person]())
	require.NoError(t, err)

	assert.Equal(t, "Person", s.Name)
	assert.Equal(t, []string{"CreatedBy", "ID", "Name", "Nickname"}, s.PropertyNames())

	require.NotNil(t, s.Key)
	assert.Equal(t, "ID", s.Key.Name)

	var settable []string
	for _, p := range s.SettableProperties() {
		settable = append(settable, p.Name)
	}

	assert.Equal(t, []string{"CreatedBy", "Name"}, settable)
	assert.True(t, s.HasDefault())
	assert.Equal(t, []int{0, 0}, s.Properties[0].Index)
}

func TestInspect_KeyNames(t *testing.T) {
	insp := NewInspector()

	order, err := insp.Inspect(reflect.TypeFor[*Order]())
	require.NoError(t, err)
	require.NotNil(t, order.Key)
	assert.Equal(t, "OrderID", order.Key.Name)

	tagged, err := insp.Inspect(reflect.TypeFor[Tagged]())
	require.NoError(t, err)
	require.NotNil(t, tagged.Key)
	assert.Equal(t, "Code", tagged.Key.Name)

	p, ok := tagged.Property("id", match.NamesFold)
	require.True(t, ok)
	assert.False(t, p.Key)
	assert.True(t, p.Settable)

	custom, err := NewInspector(WithKeyNames("Total")).Inspect(reflect.TypeFor[Order]())
	require.NoError(t, err)
	assert.Equal(t, "Total", custom.Key.Name)
}

func TestInspect_Mechanisms(t *testing.T) {
	s, err := NewInspector().Inspect(reflect.TypeFor[Ledger]())
	require.NoError(t, err)

	assert.False(t, s.HasDefault())
	require.Len(t, s.Mechanisms, 2)
	assert.Len(t, s.MechanismsOf(entity.MechanismConstructor), 1)
	assert.Len(t, s.MechanismsOf(entity.MechanismUpdater), 1)

	ctor, ok := s.Mechanism("NewLedger")
	require.True(t, ok)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[string]()}, ctor.In)

	_, ok = s.Mechanism("Missing")
	assert.False(t, ok)
}

func TestInspect_Errors(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		code string
	}{
		{"not a struct", reflect.TypeFor[int](), status.CodeNotStruct},
		{"no properties", reflect.TypeFor[Empty](), status.CodeNoProperties},
		{"invalid mechanism", reflect.TypeFor[Broken](), status.CodeBadMechanism},
		{"duplicate mechanism", reflect.TypeFor[Twice](), status.CodeBadMechanism},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInspector().Inspect(tt.typ)
			require.Error(t, err)
			assert.ErrorIs(t, err, status.ErrShape)
			assert.ErrorIs(t, err, status.NewError(status.KindShape, tt.code, ""))
		})
	}
}

func TestInspect_CachesPerType(t *testing.T) {
	insp := NewInspector()

	a, err := insp.Inspect(reflect.TypeFor[Person]())
	require.NoError(t, err)

	b, err := insp.Inspect(reflect.TypeFor[*Person]())
	require.NoError(t, err)

	assert.Same(t, a, b)

	_, err1 := insp.Inspect(reflect.TypeFor[Empty]())
	_, err2 := insp.Inspect(reflect.TypeFor[Empty]())
	assert.Same(t, err1, err2)
}

func TestInspectDto(t *testing.T) {
	s, err := NewInspector().InspectDto(reflect.TypeFor[PersonDto](), "Person")
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Name"}, s.PropertyNames())
	require.NotNil(t, s.Key)
	assert.Equal(t, "ID", s.Key.Name)

	_, err = NewInspector().InspectDto(reflect.TypeFor[string](), "Person")
	assert.ErrorIs(t, err, status.ErrShape)
}

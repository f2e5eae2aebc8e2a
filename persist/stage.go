package persist

import (
	"reflect"
	"sync"

	"dto-services/internal/common"
)

// OpKind tells what a staged Op does.
type OpKind int

const (
	OpAdd OpKind = iota
	OpUpdate
	OpRemove
)

// String returns a human-readable operation name.
func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return common.UnknownStr
	}
}

// Op is one staged change.
type Op struct {
	Kind OpKind
	// Target is the caller's entity pointer. Generated keys are written back
	// into it after a successful commit.
	Target reflect.Value
	// Row is a private copy of Target taken when the change was staged.
	Row reflect.Value
	// KeyIndex is the field index of the key property.
	KeyIndex []int
}

// Type returns the entity struct type.
func (o Op) Type() reflect.Type {
	return o.Row.Type().Elem()
}

// Key returns the key field of Row.
func (o Op) Key() reflect.Value {
	return o.Row.Elem().FieldByIndex(o.KeyIndex)
}

// WriteBack copies the key of Row into Target.
func (o Op) WriteBack() {
	o.Target.Elem().FieldByIndex(o.KeyIndex).Set(o.Key())
}

// Stage collects staged changes. Implementations embed it to get Add, Update
// and Remove.
type Stage struct {
	keys *Keys

	mu  sync.Mutex
	ops []Op
}

// NewStage creates an empty Stage.
func NewStage(keys *Keys) *Stage {
	return &Stage{keys: keys}
}

// Add stages a new entity.
func (s *Stage) Add(entity any) error {
	return s.stage(OpAdd, entity)
}

// Update stages a replacement.
func (s *Stage) Update(entity any) error {
	return s.stage(OpUpdate, entity)
}

// Remove stages a deletion.
func (s *Stage) Remove(entity any) error {
	return s.stage(OpRemove, entity)
}

// Take returns the staged changes in order and clears the stage.
func (s *Stage) Take() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := s.ops
	s.ops = nil

	return ops
}

// Pending returns the number of staged changes.
func (s *Stage) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ops)
}

func (s *Stage) stage(kind OpKind, entity any) error {
	v, err := entityValue(entity)
	if err != nil {
		return err
	}

	idx, err := s.keys.Index(v.Type())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ops = append(s.ops, Op{Kind: kind, Target: v, Row: Clone(v), KeyIndex: idx})
	s.mu.Unlock()

	return nil
}

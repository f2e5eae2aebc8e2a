package mapper

import (
	"fmt"
	"reflect"

	"dto-services/internal/plan"
)

// ApplyCopy copies every field of p from src into dst. Both must be struct
// values of p.From and p.To (or pointers to them); dst must be settable.
// Fields read through a nil embedded pointer are left untouched in dst;
// nil embedded pointers in dst are allocated on write.
func ApplyCopy(p *plan.CopyPlan, src, dst reflect.Value) {
	src, dst = reflect.Indirect(src), reflect.Indirect(dst)

	if src.Type() != p.From || dst.Type() != p.To {
		panic(fmt.Sprintf("mapper: plan %s -> %s applied to %s -> %s", p.From, p.To, src.Type(), dst.Type()))
	}

	for _, f := range p.Fields {
		ApplyField(f, src, dst)
	}
}

// ApplyField copies a single field. src and dst may be pointers.
func ApplyField(f plan.FieldCopy, src, dst reflect.Value) {
	sv, err := reflect.Indirect(src).FieldByIndexErr(f.SourceIndex)
	if err != nil {
		return
	}

	fieldForWrite(reflect.Indirect(dst), f.TargetIndex).Set(Convert(sv, f.Strategy, f.TargetType))
}

// fieldForWrite walks index allocating nil embedded pointers.
func fieldForWrite(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v
}

// Convert turns v into a value assignable to a slot of type dst using
// strategy.
func Convert(v reflect.Value, strategy plan.ConversionStrategy, dst reflect.Type) reflect.Value {
	switch strategy {
	case plan.StrategyConvert:
		return v.Convert(dst)

	case plan.StrategyPointerDeref:
		if v.IsNil() {
			return reflect.Zero(dst)
		}

		return assignable(v.Elem(), dst)

	case plan.StrategyPointerWrap:
		p := reflect.New(dst.Elem())
		p.Elem().Set(assignable(v, dst.Elem()))

		return p

	default:
		return v
	}
}

func assignable(v reflect.Value, dst reflect.Type) reflect.Value {
	if v.Type().AssignableTo(dst) {
		return v
	}

	return v.Convert(dst)
}

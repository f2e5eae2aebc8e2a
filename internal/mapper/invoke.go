package mapper

import (
	"reflect"

	"dto-services/entity"
	"dto-services/internal/plan"
	"dto-services/status"
)

// Args materializes the arguments of b from a DTO value.
func Args(b *plan.BindingPlan, dto reflect.Value) []reflect.Value {
	dto = reflect.Indirect(dto)

	args := make([]reflect.Value, 0, len(b.Args))
	for _, a := range b.Args {
		sv, err := dto.FieldByIndexErr(a.SourceIndex)
		if err != nil {
			sv = reflect.Zero(a.SourceType)
		}

		args = append(args, Convert(sv, a.Strategy, a.ParamType))
	}

	return args
}

// Invoke calls the constructor or factory of b with arguments from dto and
// returns the new entity as a *E.
//
// A constructor error becomes a construction error carrying the error text
// verbatim. A factory's status is returned as is; a factory that reports
// success without an entity is a construction error.
func Invoke(b *plan.BindingPlan, dto reflect.Value) (reflect.Value, status.Status) {
	sig := b.Mechanism
	out := sig.Func.Call(Args(b, dto))

	resultType := sig.Func.Type().Out(0)
	if resultType.Kind() == reflect.Pointer {
		resultType = resultType.Elem()
	}

	entityName := resultType.Name()

	var (
		ent reflect.Value
		st  status.Status
	)

	switch sig.Result {
	case entity.ResultPointer:
		ent = out[0]

	case entity.ResultValue:
		ent = reflect.New(out[0].Type())
		ent.Elem().Set(out[0])

	case entity.ResultPointerError, entity.ResultValueError:
		if errSt := errorStatus(out[1], entityName); !errSt.IsValid() {
			return reflect.Value{}, errSt
		}

		ent = out[0]
		if sig.Result == entity.ResultValueError {
			ent = reflect.New(out[0].Type())
			ent.Elem().Set(out[0])
		}

	case entity.ResultStatus:
		st = out[1].Interface().(status.Status)
		if !st.IsValid() {
			return reflect.Value{}, st
		}

		ent = out[0]
	}

	if ent.IsNil() {
		return reflect.Value{}, status.Status{}.WithError(status.ErrorDetail{
			Kind:    status.KindConstruction,
			Code:    status.CodeNilEntity,
			Message: sig.Name + " returned no entity",
			Entity:  entityName,
		})
	}

	return ent, st
}

// CallUpdater calls the updater of b on target (a *E) with arguments from dto.
func CallUpdater(b *plan.BindingPlan, target, dto reflect.Value) status.Status {
	sig := b.Mechanism

	in := append([]reflect.Value{target}, Args(b, dto)...)
	out := sig.Method.Func.Call(in)

	switch sig.Result {
	case entity.ResultError:
		return errorStatus(out[0], target.Type().Elem().Name())
	case entity.ResultStatus:
		return out[0].Interface().(status.Status)
	default:
		return status.Status{}
	}
}

func errorStatus(v reflect.Value, entityName string) status.Status {
	if v.IsNil() {
		return status.Status{}
	}

	st := status.FromError(status.KindConstruction, "", v.Interface().(error))
	for i := range st.Errors {
		if st.Errors[i].Entity == "" {
			st.Errors[i].Entity = entityName
		}
	}

	return st
}

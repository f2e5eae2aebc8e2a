package plan

import (
	"reflect"

	"dto-services/internal/match"
)

// strategyFor picks the strategy that moves a src value into a dst slot.
// ok is false when the types are incompatible.
func strategyFor(src, dst reflect.Type) (ConversionStrategy, string, bool) {
	compat := match.ScoreReflectCompatibility(src, dst)

	switch compat.Compatibility {
	case match.TypeIdentical:
		return StrategyDirectAssign, match.VerdictIdentical, true
	case match.TypeAssignable:
		return StrategyDirectAssign, match.VerdictAssignable, true
	case match.TypeConvertible:
		return StrategyConvert, match.VerdictConvertible, true
	case match.TypeNeedsTransform:
		if compat.Pointer == match.PointerDeref {
			return StrategyPointerDeref, compat.Reason, true
		}

		return StrategyPointerWrap, compat.Reason, true
	default:
		return StrategyDirectAssign, compat.Reason, false
	}
}

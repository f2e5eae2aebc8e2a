package plan

import (
	"fmt"
	"reflect"

	"dto-services/entity"
	"dto-services/internal/match"
	"dto-services/internal/shape"
	"dto-services/internal/style"
	"dto-services/status"
)

// Builder builds mapping plans.
type Builder struct {
	// Names selects how property and parameter names are paired.
	Names match.NameMode
}

// Build produces the full MappingConfig for a decided entity and a DTO.
//
// When the DTO cannot drive the entity's save mechanism but does match one
// of its updaters, the DTO is an update-only view: Save becomes Unsupported
// and the build succeeds.
func (b Builder) Build(d style.Decision, ent, dto *shape.Shape) (MappingConfig, status.Status) {
	cfg := MappingConfig{
		Style: d.Style,
		Read:  b.BuildRead(ent, dto),
		Key:   buildKey(ent, dto),
	}

	save, st := b.BuildSave(d, ent, dto)
	if !st.IsValid() {
		save = SaveResult{
			Kind:   SaveUnsupported,
			Reason: fmt.Sprintf("%s cannot be created from %s: %s", ent.Name, dto.Name, st.JoinErrors("; ")),
		}
	}

	upd := b.BuildUpdate(d, ent, dto, save)
	if !st.IsValid() && upd.Kind != UpdateUpdater {
		return cfg, st
	}

	cfg.Save = save
	cfg.Update = upd

	return cfg, status.Status{}
}

// BuildRead builds the entity -> DTO copy plan. Every DTO property with a
// same-named, type-compatible entity property is copied; others are skipped.
func (b Builder) BuildRead(ent, dto *shape.Shape) ReadPlan {
	rp := ReadPlan{From: ent.Type, To: dto.Type}

	for _, dp := range dto.Properties {
		ep, ok := ent.Property(dp.Name, b.Names)
		if !ok {
			continue
		}

		strategy, expl, ok := strategyFor(ep.Type, dp.Type)
		if !ok {
			continue
		}

		rp.Fields = append(rp.Fields, FieldCopy{
			Source:      ep.Name,
			SourceIndex: ep.Index,
			SourceType:  ep.Type,
			Target:      dp.Name,
			TargetIndex: dp.Index,
			TargetType:  dp.Type,
			Strategy:    strategy,
			Explanation: expl,
		})
	}

	return rp
}

// BuildSave builds the DTO -> entity plan for the decided style.
func (b Builder) BuildSave(d style.Decision, ent, dto *shape.Shape) (SaveResult, status.Status) {
	switch d.Style {
	case style.Standard:
		cp, st := b.buildCopy(ent, dto)
		if !st.IsValid() {
			return SaveResult{}, st
		}

		return SaveResult{Kind: SaveCopy, Copy: cp}, st

	case style.DDDConstructor, style.DDDStaticFactory:
		bp, st := b.buildBinding(d.Mechanism, ent, dto)
		if !st.IsValid() {
			return SaveResult{}, st
		}

		return SaveResult{Kind: SaveBinding, Binding: bp}, st

	default:
		return SaveResult{Kind: SaveUnsupported, Reason: ent.Name + " is read-only"}, status.Status{}
	}
}

// BuildUpdate picks how a stored entity is changed: a matching updater
// first, then the save plan (copy onto the entity, or rebuild keeping the
// key). ReadOnly entities are never updated.
func (b Builder) BuildUpdate(d style.Decision, ent, dto *shape.Shape, save SaveResult) UpdatePlan {
	if d.Style == style.ReadOnly {
		return UpdatePlan{Kind: UpdateUnsupported}
	}

	if upd, ok := b.updaterPlan(ent, dto); ok {
		return UpdatePlan{Kind: UpdateUpdater, Updater: upd}
	}

	switch save.Kind {
	case SaveCopy:
		return UpdatePlan{Kind: UpdateCopy}
	case SaveBinding:
		return UpdatePlan{Kind: UpdateRebuild}
	default:
		return UpdatePlan{Kind: UpdateUnsupported}
	}
}

func (b Builder) buildCopy(ent, dto *shape.Shape) (*CopyPlan, status.Status) {
	cp := &CopyPlan{From: dto.Type, To: ent.Type}

	var st status.Status

	for _, ep := range ent.SettableProperties() {
		dp, ok := dto.Property(ep.Name, b.Names)
		if !ok {
			continue
		}

		strategy, expl, ok := strategyFor(dp.Type, ep.Type)
		if !ok {
			st = st.WithError(status.ErrorDetail{
				Kind:     status.KindMappingBuild,
				Code:     status.CodeIncompatibleTypes,
				Message:  fmt.Sprintf("%s.%s (%s) cannot be copied to %s (%s)", dto.Name, dp.Name, dp.Type, ep.Name, ep.Type),
				Entity:   ent.Name,
				Property: ep.Name,
			})

			continue
		}

		cp.Fields = append(cp.Fields, FieldCopy{
			Source:      dp.Name,
			SourceIndex: dp.Index,
			SourceType:  dp.Type,
			Target:      ep.Name,
			TargetIndex: ep.Index,
			TargetType:  ep.Type,
			Strategy:    strategy,
			Explanation: expl,
		})
	}

	return cp, st
}

func (b Builder) buildBinding(m *entity.Signature, ent, dto *shape.Shape) (*BindingPlan, status.Status) {
	bp := &BindingPlan{Mechanism: m}

	var st status.Status

	for i, param := range m.Params {
		paramType := m.In[i]

		dp, ok := dto.Property(param, b.Names)
		if !ok {
			st = st.WithError(status.ErrorDetail{
				Kind:        status.KindMappingBuild,
				Code:        status.CodeUnboundParameter,
				Message:     fmt.Sprintf("%s parameter %q has no matching property on %s", m.Name, param, dto.Name),
				Entity:      ent.Name,
				Property:    param,
				Suggestions: suggest(param, paramType, dto),
			})

			continue
		}

		strategy, _, ok := strategyFor(dp.Type, paramType)
		if !ok {
			st = st.WithError(status.ErrorDetail{
				Kind:     status.KindMappingBuild,
				Code:     status.CodeIncompatibleTypes,
				Message:  fmt.Sprintf("%s.%s (%s) cannot be passed as %s parameter %q (%s)", dto.Name, dp.Name, dp.Type, m.Name, param, paramType),
				Entity:   ent.Name,
				Property: param,
			})

			continue
		}

		bp.Args = append(bp.Args, ArgBinding{
			Param:       param,
			ParamType:   paramType,
			Source:      dp.Name,
			SourceIndex: dp.Index,
			SourceType:  dp.Type,
			Strategy:    strategy,
		})
	}

	return bp, st
}

// updaterPlan binds the first updater (declaration order) whose parameters
// all match the DTO. Parameterless updaters are never picked.
func (b Builder) updaterPlan(ent, dto *shape.Shape) (*BindingPlan, bool) {
	for _, m := range ent.MechanismsOf(entity.MechanismUpdater) {
		if m.Arity() == 0 || !style.Matches(m, dto, b.Names) {
			continue
		}

		bp, st := b.buildBinding(&m, ent, dto)
		if st.IsValid() {
			return bp, true
		}
	}

	return nil, false
}

// buildKey pairs the two key properties whatever their names.
func buildKey(ent, dto *shape.Shape) *FieldCopy {
	if ent.Key == nil || dto.Key == nil {
		return nil
	}

	strategy, expl, ok := strategyFor(ent.Key.Type, dto.Key.Type)
	if !ok {
		return nil
	}

	return &FieldCopy{
		Source:      ent.Key.Name,
		SourceIndex: ent.Key.Index,
		SourceType:  ent.Key.Type,
		Target:      dto.Key.Name,
		TargetIndex: dto.Key.Index,
		TargetType:  dto.Key.Type,
		Strategy:    strategy,
		Explanation: expl,
	}
}

func suggest(param string, paramType reflect.Type, dto *shape.Shape) []string {
	sources := make([]match.Source, 0, len(dto.Properties))
	for _, p := range dto.Properties {
		sources = append(sources, match.Source{
			Name:   p.Name,
			Compat: match.ScoreReflectCompatibility(p.Type, paramType).Compatibility,
		})
	}

	return match.Suggest(param, sources, match.DefaultSuggestLimit)
}

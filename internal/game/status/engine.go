package status

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
)

// Engine applies and ticks status effects.
type Engine struct {
	src     dice.Source
	logger  *zap.Logger
	scripts ScriptCaller
}

// Option configures an Engine.
type Option func(*Engine)

// WithScripts enables Lua effect hooks dispatched through sc.
func WithScripts(sc ScriptCaller) Option {
	return func(e *Engine) { e.scripts = sc }
}

// NewEngine creates an Engine that rolls resistance with src.
//
// Precondition: src must be non-nil.
func NewEngine(src dice.Source, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{src: src, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyResult describes the outcome of ApplyStatusEffect.
type ApplyResult struct {
	Success              bool
	Resisted             bool
	Stacked              bool
	DurationRefreshed    bool
	ResistancePercentage float64
	CurrentStacks        int
	Message              string
}

// ApplyStatusEffect resolves immunity, resistance and stacking, then attaches
// a copy of effect to target. When allowStacking is set a stackable effect
// already present gains a stack; otherwise refreshDuration resets its
// remaining duration.
//
// Precondition: effect must be non-nil.
// Postcondition: target holds at most one effect per type and target never
// aliases effect.
func (eng *Engine) ApplyStatusEffect(target combatant.Combatant, effect *combatant.StatusEffect, allowStacking, refreshDuration bool) ApplyResult {
	b := combatant.BaseOf(target)
	if b == nil || effect == nil {
		return ApplyResult{Message: "No valid target specified for status effect."}
	}
	name := effect.Name
	if name == "" {
		name = DisplayName(effect.Type)
	}

	if IsImmune(b.Traits, effect) {
		return ApplyResult{
			Resisted:             true,
			ResistancePercentage: 100,
			Message:              fmt.Sprintf("%s is immune to %s!", b.Name, name),
		}
	}

	resist := Resistance(target, effect)
	if resist > 0 && dice.Percent(eng.src, resist) {
		eng.logger.Debug("status effect resisted",
			zap.String("target", b.Name),
			zap.String("effect", effect.Type.String()),
			zap.Float64("resistance", resist),
		)
		return ApplyResult{
			Resisted:             true,
			ResistancePercentage: resist,
			Message:              fmt.Sprintf("%s resisted %s!", b.Name, name),
		}
	}

	if existing := b.Effect(effect.Type); existing != nil {
		return eng.reapply(b, existing, name, resist, allowStacking, refreshDuration)
	}

	e := effect.Clone()
	e.Name = name
	if e.ID == "" {
		e.ID = New(e.Type, e.Source).ID
	}
	if e.OriginalDuration <= 0 {
		e.OriginalDuration = DefaultDuration(e.Category)
	}
	e.RemainingDuration = e.OriginalDuration
	e.MaxStacks = max(1, e.MaxStacks)
	e.StackCount = 1

	if ret := eng.callHook("on_apply", b, e); ret == lua.LFalse {
		return ApplyResult{
			Resisted:             true,
			ResistancePercentage: resist,
			Message:              fmt.Sprintf("%s resisted %s!", b.Name, name),
		}
	}

	b.Effects = append(b.Effects, e)
	eng.logger.Debug("status effect applied",
		zap.String("target", b.Name),
		zap.String("effect", e.Type.String()),
		zap.Int("duration", e.RemainingDuration),
	)
	return ApplyResult{
		Success:              true,
		ResistancePercentage: resist,
		CurrentStacks:        1,
		Message:              fmt.Sprintf("%s is now affected by %s!", b.Name, name),
	}
}

func (eng *Engine) reapply(b *combatant.Base, existing *combatant.StatusEffect, name string, resist float64, allowStacking, refresh bool) ApplyResult {
	if allowStacking && existing.CanStack {
		if existing.StackCount >= existing.MaxStacks {
			return ApplyResult{
				ResistancePercentage: resist,
				CurrentStacks:        existing.StackCount,
				Message:              fmt.Sprintf("%s is already at max stacks on %s.", name, b.Name),
			}
		}
		existing.StackCount++
		existing.RemainingDuration = existing.OriginalDuration
		return ApplyResult{
			Success:              true,
			Stacked:              true,
			ResistancePercentage: resist,
			CurrentStacks:        existing.StackCount,
			Message:              fmt.Sprintf("%s stacked on %s (%d stacks)!", name, b.Name, existing.StackCount),
		}
	}
	if refresh {
		existing.RemainingDuration = existing.OriginalDuration
		return ApplyResult{
			Success:              true,
			DurationRefreshed:    true,
			ResistancePercentage: resist,
			CurrentStacks:        existing.StackCount,
			Message:              fmt.Sprintf("%s's %s duration refreshed!", b.Name, name),
		}
	}
	return ApplyResult{
		ResistancePercentage: resist,
		CurrentStacks:        existing.StackCount,
		Message:              fmt.Sprintf("%s is already affected by %s.", b.Name, name),
	}
}

// ProcessResult summarises one round of effect ticks on a combatant.
type ProcessResult struct {
	// TotalDamage and TotalHealing are nominal: the amounts the effects
	// dealt before health clamping.
	TotalDamage        int
	TotalHealing       int
	ExpiredEffectTypes []combatant.EffectType
	// EffectsExpired is len(ExpiredEffectTypes).
	EffectsExpired    int
	ActiveEffectTypes []combatant.EffectType
	// StatModifiers is the stack-scaled sum across all active effects at the
	// start of the tick.
	StatModifiers map[string]int
	Messages      []string
}

// ProcessStatusEffects ticks every active effect on target once, in
// insertion order: damage and healing are applied, stat modifiers summed,
// durations decremented and expired effects removed.
//
// Postcondition: no effect with RemainingDuration <= 0 remains on target.
func (eng *Engine) ProcessStatusEffects(target combatant.Combatant) ProcessResult {
	res := ProcessResult{StatModifiers: map[string]int{}}
	b := combatant.BaseOf(target)
	if b == nil {
		return res
	}

	kept := b.Effects[:0]
	for _, e := range b.Effects {
		stacks := e.Stacks()
		switch e.Category {
		case combatant.DamageOverTime:
			dmg := e.TickDamage * stacks
			if ret, ok := eng.callHook("on_tick", b, e).(lua.LNumber); ok {
				dmg += int(ret)
			}
			if dmg > 0 {
				b.ApplyDamage(dmg)
				res.TotalDamage += dmg
				res.Messages = append(res.Messages,
					fmt.Sprintf("%s takes %d %s damage from %s", b.Name, dmg, e.DamageType, e.Name))
			}
		case combatant.HealOverTime:
			heal := e.TickHealing * stacks
			if ret, ok := eng.callHook("on_tick", b, e).(lua.LNumber); ok {
				heal += int(ret)
			}
			if heal > 0 {
				b.Heal(heal)
				res.TotalHealing += heal
				res.Messages = append(res.Messages,
					fmt.Sprintf("%s heals %d HP from %s", b.Name, heal, e.Name))
			}
		default:
			eng.callHook("on_tick", b, e)
		}
		for stat, delta := range e.StatModifiers {
			res.StatModifiers[stat] += delta * stacks
		}

		e.RemainingDuration--
		if e.RemainingDuration <= 0 {
			res.ExpiredEffectTypes = append(res.ExpiredEffectTypes, e.Type)
			res.EffectsExpired++
			res.Messages = append(res.Messages, fmt.Sprintf("%s has worn off from %s", e.Name, b.Name))
			eng.callHook("on_expire", b, e)
			continue
		}
		res.ActiveEffectTypes = append(res.ActiveEffectTypes, e.Type)
		kept = append(kept, e)
	}
	for i := len(kept); i < len(b.Effects); i++ {
		b.Effects[i] = nil
	}
	b.Effects = kept
	return res
}

// Package combat resolves attacks, flee attempts, item use, enemy abilities
// and victory rewards for a single player-versus-enemy encounter.
package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/config"
	"github.com/cory-johannsen/realm/internal/game/ai"
	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/difficulty"
	"github.com/cory-johannsen/realm/internal/game/npc"
	"github.com/cory-johannsen/realm/internal/game/status"
)

// LootRoller produces the drops for a defeated enemy.
type LootRoller interface {
	RollLoot(enemy *combatant.Enemy) npc.LootResult
}

// AbilityDecider picks the ability an enemy uses, or none for a basic attack.
type AbilityDecider interface {
	DecideAbilityUsage(enemy *combatant.Enemy, player combatant.Combatant, cooldowns map[string]int) (string, bool)
}

// Engine is the damage resolution engine. It holds no per-encounter state;
// every mutation lands on the combatants passed in.
type Engine struct {
	cfg     config.CombatConfig
	profile difficulty.Profile
	src     dice.Source
	status  *status.Engine
	presets *status.Registry

	abilities ai.Catalog
	decider   AbilityDecider
	loot      LootRoller

	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStatusEngine sets the engine used to apply ability status effects.
func WithStatusEngine(s *status.Engine) Option {
	return func(e *Engine) { e.status = s }
}

// WithEffectPresets resolves statusPreset ability traits against reg.
func WithEffectPresets(reg *status.Registry) Option {
	return func(e *Engine) { e.presets = reg }
}

// WithAbilities enables enemy abilities, resolved from catalog and chosen by decider.
func WithAbilities(catalog ai.Catalog, decider AbilityDecider) Option {
	return func(e *Engine) {
		e.abilities = catalog
		e.decider = decider
	}
}

// WithLoot sets the loot collaborator used by GenerateVictoryOutcome.
func WithLoot(l LootRoller) Option {
	return func(e *Engine) { e.loot = l }
}

// NewEngine creates an Engine.
//
// Precondition: src must not be nil.
// Postcondition: a status engine sharing src is created when none is supplied.
func NewEngine(cfg config.CombatConfig, profile difficulty.Profile, src dice.Source, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{cfg: cfg, profile: profile, src: src, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	if e.status == nil {
		e.status = status.NewEngine(src, logger)
	}
	return e
}

// Profile returns the active difficulty profile.
func (e *Engine) Profile() difficulty.Profile { return e.profile }

// Config returns the combat tunables.
func (e *Engine) Config() config.CombatConfig { return e.cfg }

// Status returns the status effect engine.
func (e *Engine) Status() *status.Engine { return e.status }

// InitializeCombat scales the enemy's MaxHealth by the difficulty's
// EnemyHealthMultiplier and refills Health.
//
// Precondition: called exactly once per encounter start.
// Postcondition: MaxHealth == round(old MaxHealth * multiplier) and Health == MaxHealth.
func (e *Engine) InitializeCombat(enemy combatant.Combatant) {
	b := combatant.BaseOf(enemy)
	if b == nil {
		return
	}
	base := b.MaxHealth
	b.SetMaxHealth(int(math.Round(float64(base) * e.profile.EnemyHealthMultiplier)))
	e.logger.Info("enemy initialized",
		zap.String("enemy", b.Name),
		zap.Int("health", b.Health),
		zap.String("difficulty", e.profile.Name),
		zap.Float64("multiplier", e.profile.EnemyHealthMultiplier),
	)
}

// chance rolls a percentage check, logging through the roller when there is one.
func (e *Engine) chance(label string, pct float64) bool {
	if r, ok := e.src.(*dice.Roller); ok {
		return r.Chance(label, pct)
	}
	return dice.Percent(e.src, pct)
}

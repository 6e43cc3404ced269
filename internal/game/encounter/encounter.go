// Package encounter runs one player-versus-enemy fight from start to finish:
// it alternates player and enemy turns, ticks status effects once per round
// and dispatches victory or defeat handling.
package encounter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/combat"
	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/inventory"
	"github.com/cory-johannsen/realm/internal/game/status"
	"github.com/cory-johannsen/realm/internal/observability"
)

// Phase is a state of the encounter loop.
type Phase int

const (
	PhaseStart Phase = iota
	PhasePlayerTurn
	PhaseEnemyTurn
	PhaseEnd
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseEnemyTurn:
		return "enemy_turn"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Outcome is how an encounter ended.
type Outcome int

const (
	OutcomeVictory Outcome = iota
	OutcomeDefeat
	OutcomeFled
	OutcomeTimeout
)

// String returns the outcome label stored with encounter records.
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeFled:
		return "fled"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ParseOutcome maps a stored label back to an Outcome.
func ParseOutcome(s string) (Outcome, bool) {
	for o := OutcomeVictory; o <= OutcomeTimeout; o++ {
		if o.String() == s {
			return o, true
		}
	}
	return OutcomeVictory, false
}

// Result summarizes a finished encounter.
type Result struct {
	EncounterID  string
	Outcome      Outcome
	Rounds       int
	Victory      *combat.VictoryOutcome
	Rewards      Rewards
	LevelsGained int
	Penalty      *Penalty
}

// Orchestrator drives encounters. It holds collaborators only; each Run
// owns its own per-encounter state, so one Orchestrator may run many
// encounters concurrently as long as they do not share combatants.
type Orchestrator struct {
	engine    *combat.Engine
	input     Input
	publisher Publisher
	rewards   RewardHandler
	levels    LevelUpChecker
	saver     Saver
	defeat    DefeatHandler
	backpack  *inventory.Backpack
	items     *inventory.Registry
	maxRounds int
	logger    *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPublisher sets the event sink.
func WithPublisher(p Publisher) Option { return func(o *Orchestrator) { o.publisher = p } }

// WithRewards replaces the default DifficultyRewards handler.
func WithRewards(r RewardHandler) Option { return func(o *Orchestrator) { o.rewards = r } }

// WithLevelUp replaces the default XPCurve checker.
func WithLevelUp(l LevelUpChecker) Option { return func(o *Orchestrator) { o.levels = l } }

// WithSaver enables auto-save after victories.
func WithSaver(s Saver) Option { return func(o *Orchestrator) { o.saver = s } }

// WithDefeatHandler replaces the default PenaltyHandler.
func WithDefeatHandler(d DefeatHandler) Option { return func(o *Orchestrator) { o.defeat = d } }

// WithInventory enables the item menu and loot pickup.
func WithInventory(backpack *inventory.Backpack, items *inventory.Registry) Option {
	return func(o *Orchestrator) {
		o.backpack = backpack
		o.items = items
	}
}

// WithMaxRounds overrides the configured round cap; 0 means unlimited.
func WithMaxRounds(n int) Option { return func(o *Orchestrator) { o.maxRounds = n } }

// New creates an Orchestrator.
//
// Precondition: engine and input must not be nil.
// Postcondition: unset collaborators fall back to the difficulty-driven defaults.
func New(engine *combat.Engine, input Input, logger *zap.Logger, opts ...Option) *Orchestrator {
	profile := engine.Profile()
	o := &Orchestrator{
		engine:    engine,
		input:     input,
		publisher: nopPublisher{},
		rewards:   DifficultyRewards{Profile: profile},
		levels:    XPCurve{},
		defeat:    PenaltyHandler{Profile: profile},
		maxRounds: engine.Config().MaxRounds,
		logger:    observability.OrNop(logger),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run is the state of one encounter.
type run struct {
	id        string
	round     int
	defending bool
	outcome   Outcome
	player    *combatant.Player
	enemy     *combatant.Enemy
	logger    *zap.Logger
}

// Run fights player against enemy until one falls, the player flees or the
// round cap is hit.
//
// Precondition: player and enemy are alive and not shared with another Run.
// Postcondition: an error is returned only when Input fails or ctx is done.
func (o *Orchestrator) Run(ctx context.Context, player *combatant.Player, enemy *combatant.Enemy) (Result, error) {
	if player == nil || enemy == nil {
		return Result{}, fmt.Errorf("encounter requires a player and an enemy")
	}
	r := &run{id: uuid.NewString(), player: player, enemy: enemy}
	r.logger = observability.ForEncounter(o.logger, r.id, player.Name, enemy.Name)

	phase := PhaseStart
	for {
		if err := ctx.Err(); err != nil && phase != PhaseEnd {
			return Result{EncounterID: r.id, Rounds: r.round}, fmt.Errorf("encounter %s: %w", r.id, err)
		}
		switch phase {
		case PhaseStart:
			phase = o.start(ctx, r)
		case PhasePlayerTurn:
			next, err := o.playerTurn(ctx, r)
			if err != nil {
				return Result{EncounterID: r.id, Rounds: r.round}, fmt.Errorf("encounter %s: %w", r.id, err)
			}
			phase = next
		case PhaseEnemyTurn:
			phase = o.enemyTurn(ctx, r)
		case PhaseEnd:
			return o.finish(ctx, r), nil
		}
	}
}

func (o *Orchestrator) start(ctx context.Context, r *run) Phase {
	o.engine.InitializeCombat(r.enemy)
	r.round = 1
	r.logger.Info("encounter started",
		zap.String("difficulty", o.engine.Profile().Name),
		zap.Int("enemy_health", r.enemy.Health),
	)
	o.emit(ctx, r, Event{
		Kind:    CombatStarted,
		Actor:   r.player.Name,
		Target:  r.enemy.Name,
		Message: fmt.Sprintf("Battle begins against %s!", r.enemy.Name),
	})
	return PhasePlayerTurn
}

func (o *Orchestrator) playerTurn(ctx context.Context, r *run) (Phase, error) {
	if o.maxRounds > 0 && r.round > o.maxRounds {
		r.outcome = OutcomeTimeout
		r.round = o.maxRounds
		return PhaseEnd, nil
	}
	r.defending = false
	if skipped := o.skipIfIncapacitated(ctx, r, r.player.Core()); skipped {
		return PhaseEnemyTurn, nil
	}

	consumables := o.consumables()
	action, err := o.input.ChooseAction(ctx, State{
		EncounterID: r.id,
		Round:       r.round,
		Player:      r.player,
		Enemy:       r.enemy,
		Consumables: consumables,
	})
	if err != nil {
		return PhaseEnd, fmt.Errorf("choosing action: %w", err)
	}

	switch action {
	case combat.ActionDefend:
		r.defending = true
		o.emit(ctx, r, Event{Kind: PlayerDefended, Actor: r.player.Name, Message: "You brace for the next attack."})
		return PhaseEnemyTurn, nil

	case combat.ActionUseItem:
		used, err := o.useItem(ctx, r, consumables)
		if err != nil {
			return PhaseEnd, err
		}
		if !used {
			return PhasePlayerTurn, nil
		}
		return PhaseEnemyTurn, nil

	case combat.ActionFlee:
		res := o.engine.AttemptFlee(r.player, r.enemy)
		o.emit(ctx, r, Event{Kind: FleeAttempted, Actor: r.player.Name, Target: r.enemy.Name, Message: res.Message})
		if res.Success {
			r.outcome = OutcomeFled
			return PhaseEnd, nil
		}
		return PhaseEnemyTurn, nil

	default:
		res := o.engine.ExecutePlayerAttack(r.player, r.enemy)
		kind := AttackPerformed
		if res.IsDodged {
			kind = AttackDodged
		}
		o.emit(ctx, r, Event{Kind: kind, Actor: r.player.Name, Target: r.enemy.Name, Damage: res.Damage, Message: res.Message})
		if !r.enemy.IsAlive() {
			o.enemyDefeated(ctx, r)
			return PhaseEnd, nil
		}
		return PhaseEnemyTurn, nil
	}
}

// useItem runs the item menu. It reports false when no item was consumed,
// which keeps the turn with the player.
func (o *Orchestrator) useItem(ctx context.Context, r *run, options []*inventory.ItemDef) (bool, error) {
	if len(options) == 0 {
		return false, nil
	}
	item, ok, err := o.input.ChooseItem(ctx, r.player, options)
	if err != nil {
		return false, fmt.Errorf("choosing item: %w", err)
	}
	if !ok || item == nil {
		return false, nil
	}
	if o.backpack.Count(item.ID) == 0 {
		r.logger.Warn("chosen item not in backpack", zap.String("item", item.ID))
		return false, nil
	}
	res := o.engine.UseItemInCombat(r.player, item)
	if !res.Success {
		r.logger.Debug("item rejected", zap.String("item", item.ID), zap.String("reason", res.Message))
		return false, nil
	}
	if !o.backpack.RemoveOne(item.ID) {
		r.logger.Warn("item used but not removed from backpack", zap.String("item", item.ID))
	}
	o.emit(ctx, r, Event{Kind: ItemUsed, Actor: r.player.Name, Healing: res.Healing, Message: res.Message})
	return true, nil
}

func (o *Orchestrator) enemyTurn(ctx context.Context, r *run) Phase {
	if !o.skipIfIncapacitated(ctx, r, r.enemy.Core()) {
		o.enemyAct(ctx, r)
	}
	r.enemy.TickCooldowns()
	if !r.player.IsAlive() {
		o.playerDefeated(ctx, r)
		return PhaseEnd
	}
	if !r.enemy.IsAlive() {
		o.enemyDefeated(ctx, r)
		return PhaseEnd
	}

	o.tickStatus(ctx, r, r.player)
	if !r.player.IsAlive() {
		o.playerDefeated(ctx, r)
		return PhaseEnd
	}
	o.tickStatus(ctx, r, r.enemy)
	if !r.enemy.IsAlive() {
		o.enemyDefeated(ctx, r)
		return PhaseEnd
	}

	r.round++
	return PhasePlayerTurn
}

func (o *Orchestrator) enemyAct(ctx context.Context, r *run) {
	if status.CanCast(r.enemy.Core()) {
		if ab, ok := o.engine.ExecuteEnemyAbility(r.enemy, r.player); ok {
			o.emit(ctx, r, Event{
				Kind:    AbilityUsed,
				Actor:   r.enemy.Name,
				Target:  r.player.Name,
				Damage:  ab.Damage,
				Healing: ab.Healing,
				Message: ab.Message,
			})
			return
		}
	}
	res := o.engine.ExecuteEnemyAttack(r.enemy, r.player, r.defending)
	kind := DamageTaken
	if res.IsDodged {
		kind = AttackDodged
	}
	o.emit(ctx, r, Event{Kind: kind, Actor: r.enemy.Name, Target: r.player.Name, Damage: res.Damage, Message: res.Message})
}

func (o *Orchestrator) tickStatus(ctx context.Context, r *run, c combatant.Combatant) {
	b := c.Core()
	if len(b.Effects) == 0 {
		return
	}
	pr := o.engine.Status().ProcessStatusEffects(c)
	if pr.TotalDamage > 0 || pr.TotalHealing > 0 {
		o.emit(ctx, r, Event{
			Kind:    StatusTick,
			Target:  b.Name,
			Damage:  pr.TotalDamage,
			Healing: pr.TotalHealing,
			Message: strings.Join(pr.Messages, "; "),
		})
	}
	for _, t := range pr.ExpiredEffectTypes {
		o.emit(ctx, r, Event{
			Kind:    EffectExpired,
			Target:  b.Name,
			Message: fmt.Sprintf("%s has worn off from %s", status.DisplayName(t), b.Name),
		})
	}
}

func (o *Orchestrator) skipIfIncapacitated(ctx context.Context, r *run, b *combatant.Base) bool {
	if !status.IsIncapacitated(b) {
		return false
	}
	name := "incapacitated"
	for _, t := range []combatant.EffectType{combatant.Stunned, combatant.Frozen, combatant.Paralyzed} {
		if b.HasEffect(t) {
			name = t.String()
			break
		}
	}
	o.emit(ctx, r, Event{
		Kind:    TurnSkipped,
		Actor:   b.Name,
		Message: fmt.Sprintf("%s is %s and cannot act!", b.Name, strings.ToLower(name)),
	})
	return true
}

func (o *Orchestrator) enemyDefeated(ctx context.Context, r *run) {
	r.outcome = OutcomeVictory
	o.emit(ctx, r, Event{Kind: EnemyDefeated, Actor: r.player.Name, Target: r.enemy.Name,
		Message: fmt.Sprintf("Victory! %s defeated!", r.enemy.Name)})
}

func (o *Orchestrator) playerDefeated(ctx context.Context, r *run) {
	r.outcome = OutcomeDefeat
	o.emit(ctx, r, Event{Kind: PlayerDefeated, Actor: r.enemy.Name, Target: r.player.Name,
		Message: "You have been defeated..."})
}

func (o *Orchestrator) finish(ctx context.Context, r *run) Result {
	res := Result{EncounterID: r.id, Outcome: r.outcome, Rounds: r.round}

	switch r.outcome {
	case OutcomeVictory:
		victory := o.engine.GenerateVictoryOutcome(r.player, r.enemy)
		res.Victory = &victory
		res.Rewards = o.rewards.Grant(ctx, r.player, victory)
		o.pickUpLoot(r, victory)
		res.LevelsGained = o.levels.CheckLevelUp(r.player)
		o.autoSave(ctx, r, res, victory.Summary)
	case OutcomeDefeat:
		penalty := o.defeat.HandleDefeat(ctx, r.player, r.enemy)
		res.Penalty = &penalty
	}

	o.emit(ctx, r, Event{
		Kind:    CombatEnded,
		Actor:   r.player.Name,
		Target:  r.enemy.Name,
		Message: fmt.Sprintf("Combat ended: %s", r.outcome),
	})
	r.logger.Info("encounter ended",
		zap.String("outcome", r.outcome.String()),
		zap.Int("rounds", r.round),
		zap.Int("xp", res.Rewards.XP),
		zap.Int("gold", res.Rewards.Gold),
	)
	return res
}

func (o *Orchestrator) pickUpLoot(r *run, victory combat.VictoryOutcome) {
	if o.backpack == nil || o.items == nil {
		return
	}
	for _, li := range victory.LootDropped {
		if err := o.backpack.Add(li.ItemDefID, max(1, li.Quantity), o.items); err != nil {
			r.logger.Warn("loot not picked up", zap.String("item", li.ItemDefID), zap.Error(err))
		}
	}
}

func (o *Orchestrator) autoSave(ctx context.Context, r *run, res Result, summary string) {
	if o.saver == nil {
		return
	}
	rec := Record{
		ID:         r.id,
		PlayerName: r.player.Name,
		EnemyName:  r.enemy.Name,
		Difficulty: o.engine.Profile().Name,
		Outcome:    res.Outcome,
		Rounds:     res.Rounds,
		XPGained:   res.Rewards.XP,
		GoldGained: res.Rewards.Gold,
		Summary:    summary,
		CreatedAt:  time.Now().UTC(),
	}
	if err := o.saver.SaveEncounter(ctx, rec); err != nil {
		r.logger.Warn("auto-save after combat failed", zap.Error(err))
	}
}

func (o *Orchestrator) consumables() []*inventory.ItemDef {
	if o.backpack == nil || o.items == nil {
		return nil
	}
	return o.backpack.Consumables(o.items)
}

func (o *Orchestrator) emit(ctx context.Context, r *run, ev Event) {
	ev.EncounterID = r.id
	ev.Round = r.round
	o.publisher.Publish(ctx, ev)
}

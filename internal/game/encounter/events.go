package encounter

import (
	"context"

	"go.uber.org/zap"
)

// EventKind classifies a notification emitted during an encounter.
type EventKind int

const (
	CombatStarted EventKind = iota
	AttackPerformed
	AttackDodged
	DamageTaken
	PlayerDefended
	StatusTick
	EffectExpired
	AbilityUsed
	TurnSkipped
	FleeAttempted
	ItemUsed
	EnemyDefeated
	PlayerDefeated
	CombatEnded
)

var eventKindNames = [...]string{
	CombatStarted:   "combat_started",
	AttackPerformed: "attack_performed",
	AttackDodged:    "attack_dodged",
	DamageTaken:     "damage_taken",
	PlayerDefended:  "player_defended",
	StatusTick:      "status_tick",
	EffectExpired:   "effect_expired",
	AbilityUsed:     "ability_used",
	TurnSkipped:     "turn_skipped",
	FleeAttempted:   "flee_attempted",
	ItemUsed:        "item_used",
	EnemyDefeated:   "enemy_defeated",
	PlayerDefeated:  "player_defeated",
	CombatEnded:     "combat_ended",
}

// String returns the snake_case event name.
func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is one meaningful thing that happened in an encounter.
type Event struct {
	EncounterID string
	Round       int
	Kind        EventKind
	Actor       string
	Target      string
	Damage      int
	Healing     int
	Message     string
}

// Publisher receives encounter events. Implementations must not block for long;
// the encounter loop waits on each call.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, ev Event)

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, ev Event) { f(ctx, ev) }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// Publishers fans an event out to each publisher in order.
type Publishers []Publisher

// Publish forwards ev to every publisher.
func (ps Publishers) Publish(ctx context.Context, ev Event) {
	for _, p := range ps {
		p.Publish(ctx, ev)
	}
}

// LogPublisher writes every event to a zap logger at info level.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs ev.
func (p *LogPublisher) Publish(_ context.Context, ev Event) {
	p.logger.Info(ev.Message,
		zap.String("encounter_id", ev.EncounterID),
		zap.Int("round", ev.Round),
		zap.String("event", ev.Kind.String()),
		zap.String("actor", ev.Actor),
		zap.String("target", ev.Target),
		zap.Int("damage", ev.Damage),
		zap.Int("healing", ev.Healing),
	)
}

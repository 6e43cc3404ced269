package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/status"
	"github.com/cory-johannsen/realm/internal/game/trait"
)

// fixedSource always returns val, clamped into [0, n).
type fixedSource struct{ val int }

func (f fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

// neverSource makes every percentage roll below 100 fail.
var neverSource = fixedSource{val: 1 << 30}

func newEnemy(hp int) *combatant.Enemy {
	e := &combatant.Enemy{ID: "goblin-1", TemplateID: "goblin"}
	e.Name = "Goblin"
	e.SetMaxHealth(hp)
	return e
}

func newPlayer(hp int) *combatant.Player {
	p := &combatant.Player{}
	p.Name = "Hero"
	p.SetMaxHealth(hp)
	return p
}

func TestEngine_Apply_NoTarget(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	res := eng.ApplyStatusEffect(nil, status.New(combatant.Burning, "test"), false, false)
	assert.False(t, res.Success)
	assert.Equal(t, "No valid target specified for status effect.", res.Message)

	var p *combatant.Player
	res = eng.ApplyStatusEffect(p, status.New(combatant.Burning, "test"), false, false)
	assert.False(t, res.Success)
}

func TestEngine_Apply_NewEffect(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	effect := status.New(combatant.Poisoned, "venom")
	effect.RemainingDuration = 1

	res := eng.ApplyStatusEffect(target, effect, false, false)
	require.True(t, res.Success)
	assert.Equal(t, 1, res.CurrentStacks)
	assert.Equal(t, "Goblin is now affected by Poisoned!", res.Message)

	got := target.Effect(combatant.Poisoned)
	require.NotNil(t, got)
	assert.NotSame(t, effect, got, "stored effect must be a copy")
	assert.Equal(t, got.OriginalDuration, got.RemainingDuration)

	effect.TickDamage = 999
	assert.Equal(t, 4, got.TickDamage)
}

func TestEngine_Apply_ZeroDurationUsesDefault(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	effect := status.New(combatant.Stunned, "bash")
	effect.OriginalDuration = 0
	effect.ID = ""

	require.True(t, eng.ApplyStatusEffect(target, effect, false, false).Success)
	got := target.Effect(combatant.Stunned)
	assert.Equal(t, 2, got.RemainingDuration)
	assert.NotEmpty(t, got.ID)
}

func TestEngine_Apply_ImmuneByList(t *testing.T) {
	eng := status.NewEngine(fixedSource{val: 0}, nil)
	target := newEnemy(50)
	target.Traits = trait.Bag{trait.ImmuneToStatusEffects: trait.List("burning", "Frozen")}

	res := eng.ApplyStatusEffect(target, status.New(combatant.Burning, "t"), false, false)
	assert.True(t, res.Resisted)
	assert.False(t, res.Success)
	assert.Equal(t, 100.0, res.ResistancePercentage)
	assert.Equal(t, "Goblin is immune to Burning!", res.Message)
	assert.Empty(t, target.Effects)
}

func TestEngine_Apply_ImmuneToAll(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	target.Traits = trait.Bag{trait.ImmuneToStatusEffects: trait.String("all")}
	for _, et := range combatant.AllEffectTypes() {
		res := eng.ApplyStatusEffect(target, status.New(et, "t"), true, true)
		assert.True(t, res.Resisted, et.String())
	}
	assert.Empty(t, target.Effects)
}

func TestEngine_Apply_ImmuneByFamilyFlag(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	target.Traits = trait.Bag{trait.ImmuneToStun: trait.Bool(true)}

	assert.True(t, eng.ApplyStatusEffect(target, status.New(combatant.Stunned, "t"), false, false).Resisted)
	assert.True(t, eng.ApplyStatusEffect(target, status.New(combatant.Paralyzed, "t"), false, false).Resisted)
	assert.True(t, eng.ApplyStatusEffect(target, status.New(combatant.Feared, "t"), false, false).Success)
}

func TestEngine_Apply_ImmuneFlagFalseIsIgnored(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	target.Traits = trait.Bag{trait.ImmuneToPoison: trait.Bool(false)}
	assert.True(t, eng.ApplyStatusEffect(target, status.New(combatant.Poisoned, "t"), false, false).Success)
}

func TestEngine_Apply_FullResistanceAlwaysResists(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	target.Traits = trait.Bag{trait.ResistPoison: trait.Number(150)}

	res := eng.ApplyStatusEffect(target, status.New(combatant.Poisoned, "t"), false, false)
	assert.True(t, res.Resisted)
	assert.Equal(t, 100.0, res.ResistancePercentage)
	assert.Equal(t, "Goblin resisted Poisoned!", res.Message)
}

func TestEngine_Apply_PartialResistanceRolls(t *testing.T) {
	target := newEnemy(50)
	target.Traits = trait.Bag{trait.ResistFire: trait.Number(50)}

	res := status.NewEngine(fixedSource{val: 0}, nil).
		ApplyStatusEffect(target, status.New(combatant.Burning, "t"), false, false)
	assert.True(t, res.Resisted)
	assert.Equal(t, 50.0, res.ResistancePercentage)

	res = status.NewEngine(neverSource, nil).
		ApplyStatusEffect(target, status.New(combatant.Burning, "t"), false, false)
	assert.True(t, res.Success)
	assert.Equal(t, 50.0, res.ResistancePercentage)
}

func TestResistance_FallbackChain(t *testing.T) {
	burning := status.New(combatant.Burning, "t")

	e := newEnemy(10)
	e.Traits = trait.Bag{trait.ResistFire: trait.Number(20), "resistBurning": trait.Number(10), trait.ResistMagic: trait.Number(80)}
	assert.Equal(t, 30.0, status.Resistance(e, burning))

	e.Traits = trait.Bag{trait.ResistMagic: trait.Number(80)}
	assert.Equal(t, 40.0, status.Resistance(e, burning))

	e.Traits = nil
	e.Attributes.Wisdom = 50
	assert.Equal(t, 0.0, status.Resistance(e, burning), "enemies get no wisdom resistance")

	p := newPlayer(10)
	p.Attributes.Wisdom = 50
	assert.InDelta(t, 5.0, status.Resistance(p, burning), 1e-9)
}

func TestEngine_Apply_Stacks(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	for i := 0; i < 2; i++ {
		eng.ApplyStatusEffect(target, status.New(combatant.Burning, "t"), true, false)
	}
	res := eng.ApplyStatusEffect(target, status.New(combatant.Burning, "t"), true, false)
	assert.True(t, res.Stacked)
	assert.Equal(t, 3, res.CurrentStacks)
	assert.Equal(t, "Burning stacked on Goblin (3 stacks)!", res.Message)
	assert.Len(t, target.Effects, 1)
}

func TestEngine_Apply_StackCap(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	for i := 0; i < 3; i++ {
		eng.ApplyStatusEffect(target, status.New(combatant.Bleeding, "t"), true, false)
	}
	res := eng.ApplyStatusEffect(target, status.New(combatant.Bleeding, "t"), true, false)
	assert.False(t, res.Success)
	assert.Equal(t, 3, res.CurrentStacks)
	assert.Equal(t, "Bleeding is already at max stacks on Goblin.", res.Message)
}

func TestEngine_Apply_Refresh(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	eng.ApplyStatusEffect(target, status.New(combatant.Stunned, "t"), false, false)
	target.Effects[0].RemainingDuration = 1

	res := eng.ApplyStatusEffect(target, status.New(combatant.Stunned, "t"), true, true)
	assert.True(t, res.DurationRefreshed)
	assert.Equal(t, 2, target.Effects[0].RemainingDuration)
}

func TestEngine_Apply_AlreadyAffected(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	eng.ApplyStatusEffect(target, status.New(combatant.Stunned, "t"), false, false)
	res := eng.ApplyStatusEffect(target, status.New(combatant.Stunned, "t"), false, false)
	assert.False(t, res.Success)
	assert.False(t, res.Resisted)
	assert.Equal(t, "Goblin is already affected by Stunned.", res.Message)
}

func TestPropertyStacksNeverExceedMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		et := rapid.SampledFrom(combatant.AllEffectTypes()).Draw(t, "type")
		n := rapid.IntRange(1, 20).Draw(t, "applications")
		eng := status.NewEngine(neverSource, nil)
		target := newEnemy(1000)
		for i := 0; i < n; i++ {
			eng.ApplyStatusEffect(target, status.New(et, "t"), true, rapid.Bool().Draw(t, "refresh"))
		}
		if len(target.Effects) != 1 {
			t.Fatalf("expected one effect of %s, got %d", et, len(target.Effects))
		}
		e := target.Effects[0]
		if e.StackCount < 1 || e.StackCount > e.MaxStacks {
			t.Fatalf("stack count %d outside [1, %d]", e.StackCount, e.MaxStacks)
		}
		if want := min(n, e.MaxStacks); e.StackCount != want {
			t.Fatalf("stack count %d after %d applications, want %d", e.StackCount, n, want)
		}
	})
}

func TestEngine_Process_DamageOverTimeScalesWithStacks(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(100)
	for i := 0; i < 3; i++ {
		eng.ApplyStatusEffect(target, status.New(combatant.Burning, "t"), true, false)
	}

	res := eng.ProcessStatusEffects(target)
	assert.Equal(t, 15, res.TotalDamage)
	assert.Equal(t, 85, target.Health)
	assert.Equal(t, []combatant.EffectType{combatant.Burning}, res.ActiveEffectTypes)
	assert.Contains(t, res.Messages, "Goblin takes 15 fire damage from Burning")
}

func TestEngine_Process_TotalsAreNominal(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(3)
	eng.ApplyStatusEffect(target, status.New(combatant.Burning, "t"), false, false)

	res := eng.ProcessStatusEffects(target)
	assert.Equal(t, 5, res.TotalDamage)
	assert.Equal(t, 0, target.Health)
}

func TestEngine_Process_RegenerationRunsFullDuration(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newPlayer(100)
	target.Health = 50
	eng.ApplyStatusEffect(target, status.New(combatant.Regenerating, "potion"), false, false)

	for tick := 1; tick <= 4; tick++ {
		res := eng.ProcessStatusEffects(target)
		assert.Equal(t, 8, res.TotalHealing, "tick %d", tick)
	}
	assert.Equal(t, 82, target.Health)
	assert.Empty(t, target.Effects)
}

func TestEngine_Process_ExpiresAfterLastTick(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	effect := status.New(combatant.Weakened, "curse")
	effect.OriginalDuration = 1
	eng.ApplyStatusEffect(target, effect, false, false)

	res := eng.ProcessStatusEffects(target)
	assert.Equal(t, []combatant.EffectType{combatant.Weakened}, res.ExpiredEffectTypes)
	assert.Equal(t, 1, res.EffectsExpired)
	assert.Empty(t, res.ActiveEffectTypes)
	assert.Contains(t, res.Messages, "Weakened has worn off from Goblin")
	assert.Empty(t, target.Effects)
	assert.Equal(t, -5, res.StatModifiers["attack"], "modifiers apply on the final tick")
}

func TestEngine_Process_SumsStatModifiers(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	eng.ApplyStatusEffect(target, status.New(combatant.Strengthened, "t"), false, false)
	eng.ApplyStatusEffect(target, status.New(combatant.Cursed, "t"), false, false)
	eng.ApplyStatusEffect(target, status.New(combatant.Enraged, "t"), false, false)

	assert.Equal(t, 22, status.StatModifierTotal(&target.Base, "attack"))
	assert.Equal(t, -8, status.StatModifierTotal(&target.Base, "defense"))

	res := eng.ProcessStatusEffects(target)
	assert.Equal(t, 22, res.StatModifiers["attack"])
	assert.Equal(t, -8, res.StatModifiers["defense"])
}

func TestEngine_Process_PreservesInsertionOrder(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(500)
	order := []combatant.EffectType{combatant.Poisoned, combatant.Hasted, combatant.Burning}
	for _, et := range order {
		eng.ApplyStatusEffect(target, status.New(et, "t"), false, false)
	}
	res := eng.ProcessStatusEffects(target)
	assert.Equal(t, order, res.ActiveEffectTypes)
	assert.Equal(t, order, target.EffectTypes())
}

func TestPropertyProcessRemovesExpired(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		eng := status.NewEngine(neverSource, nil)
		target := newEnemy(10000)
		types := rapid.SliceOfNDistinct(rapid.SampledFrom(combatant.AllEffectTypes()), 1, 6,
			func(et combatant.EffectType) combatant.EffectType { return et }).Draw(t, "types")
		for _, et := range types {
			e := status.New(et, "t")
			e.OriginalDuration = rapid.IntRange(1, 5).Draw(t, "duration")
			eng.ApplyStatusEffect(target, e, false, false)
		}
		for round := 0; round < 6; round++ {
			res := eng.ProcessStatusEffects(target)
			for _, e := range target.Effects {
				if e.RemainingDuration <= 0 {
					t.Fatalf("expired %s still active", e.Type)
				}
			}
			if len(res.ActiveEffectTypes) != len(target.Effects) {
				t.Fatalf("active %d != remaining %d", len(res.ActiveEffectTypes), len(target.Effects))
			}
		}
		if len(target.Effects) != 0 {
			t.Fatalf("effects remain after max duration: %v", target.EffectTypes())
		}
	})
}

func TestQueries(t *testing.T) {
	eng := status.NewEngine(neverSource, nil)
	target := newEnemy(50)
	assert.False(t, status.IsIncapacitated(&target.Base))
	assert.True(t, status.CanCast(&target.Base))

	eng.ApplyStatusEffect(target, status.New(combatant.Frozen, "t"), false, false)
	eng.ApplyStatusEffect(target, status.New(combatant.Silenced, "t"), false, false)
	assert.True(t, status.IsIncapacitated(&target.Base))
	assert.False(t, status.CanCast(&target.Base))
	assert.False(t, status.IsIncapacitated(nil))
}

type recordingScripts struct {
	calls []string
	ret   map[string]lua.LValue
}

func (r *recordingScripts) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	r.calls = append(r.calls, scope+"/"+hook)
	if v, ok := r.ret[hook]; ok {
		return v, nil
	}
	return lua.LNil, nil
}

func TestEngine_ScriptHooks(t *testing.T) {
	sc := &recordingScripts{ret: map[string]lua.LValue{"venom_on_tick": lua.LNumber(2)}}
	eng := status.NewEngine(neverSource, nil, status.WithScripts(sc))
	target := newEnemy(100)
	e := status.New(combatant.Poisoned, "t")
	e.OriginalDuration = 1
	e.Hook = "venom"

	require.True(t, eng.ApplyStatusEffect(target, e, false, false).Success)
	res := eng.ProcessStatusEffects(target)
	assert.Equal(t, 6, res.TotalDamage)
	assert.Equal(t, []string{"effects/venom_on_apply", "effects/venom_on_tick", "effects/venom_on_expire"}, sc.calls)
}

func TestEngine_ScriptHooks_AddHealing(t *testing.T) {
	sc := &recordingScripts{ret: map[string]lua.LValue{"regrowth_on_tick": lua.LNumber(5)}}
	eng := status.NewEngine(neverSource, nil, status.WithScripts(sc))
	target := newEnemy(100)
	target.Health = 50
	e := status.New(combatant.Regenerating, "t")
	e.OriginalDuration = 2
	e.TickHealing = 8
	e.Hook = "regrowth"

	require.True(t, eng.ApplyStatusEffect(target, e, false, false).Success)
	res := eng.ProcessStatusEffects(target)
	assert.Equal(t, 13, res.TotalHealing)
	assert.Equal(t, 63, target.Health)
}

func TestEngine_ScriptVetoesApply(t *testing.T) {
	sc := &recordingScripts{ret: map[string]lua.LValue{"ward_on_apply": lua.LFalse}}
	eng := status.NewEngine(neverSource, nil, status.WithScripts(sc))
	target := newEnemy(100)
	e := status.New(combatant.Cursed, "t")
	e.Hook = "ward"

	res := eng.ApplyStatusEffect(target, e, false, false)
	assert.True(t, res.Resisted)
	assert.Empty(t, target.Effects)
}

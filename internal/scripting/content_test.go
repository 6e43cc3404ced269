package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/status"
	"github.com/cory-johannsen/realm/internal/scripting"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

// contentEngine loads the shipped effect scripts and presets and returns a
// status engine whose hooks run with src.
func contentEngine(t *testing.T, src dice.Source) (*status.Engine, *status.Registry) {
	t.Helper()
	root := repoRoot(t)
	logger := zap.NewNop()
	mgr := scripting.NewManager(dice.NewLoggedRoller(src, logger), logger)
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.LoadScope(status.ScriptScope, filepath.Join(root, "content", "scripts", "effects"), 0))

	reg, err := status.LoadDirectory(filepath.Join(root, "content", "effects"))
	require.NoError(t, err)
	return status.NewEngine(src, logger, status.WithScripts(mgr)), reg
}

func target(hp int) *combatant.Enemy {
	e := &combatant.Enemy{ID: "dummy-1", TemplateID: "dummy"}
	e.Name = "Dummy"
	e.SetMaxHealth(hp)
	return e
}

func preset(t *testing.T, reg *status.Registry, id string) *combatant.StatusEffect {
	t.Helper()
	def, ok := reg.Get(id)
	require.True(t, ok, "missing effect preset %q", id)
	e, err := def.Instantiate("test")
	require.NoError(t, err)
	return e
}

func TestContentScripts_VenomBitesHarderAtThreeStacks(t *testing.T) {
	eng, reg := contentEngine(t, fixedSource{0})
	dummy := target(100)
	for i := 0; i < 3; i++ {
		res := eng.ApplyStatusEffect(dummy, preset(t, reg, "venom"), true, true)
		require.True(t, res.Success, res.Message)
	}

	tick := eng.ProcessStatusEffects(dummy)
	// 4 per stack plus the hook's bonus at three stacks
	assert.Equal(t, 14, tick.TotalDamage)
	assert.Equal(t, 86, dummy.Health)
}

func TestContentScripts_SearingFlaresOnLastTick(t *testing.T) {
	eng, reg := contentEngine(t, dice.NewCryptoSource())
	dummy := target(100)
	require.True(t, eng.ApplyStatusEffect(dummy, preset(t, reg, "searing_flame"), false, true).Success)

	var damage []int
	for i := 0; i < 3; i++ {
		damage = append(damage, eng.ProcessStatusEffects(dummy).TotalDamage)
	}
	assert.Equal(t, 6, damage[0])
	assert.Equal(t, 6, damage[1])
	assert.GreaterOrEqual(t, damage[2], 7)
	assert.LessOrEqual(t, damage[2], 10)
	assert.Empty(t, dummy.Effects)
}

func TestContentScripts_DazeCanFailToLand(t *testing.T) {
	lands, reg := contentEngine(t, fixedSource{0})
	dummy := target(50)
	assert.True(t, lands.ApplyStatusEffect(dummy, preset(t, reg, "crushing_blow"), false, true).Success)
	assert.True(t, status.IsIncapacitated(&dummy.Base))

	misses, reg := contentEngine(t, fixedSource{1 << 30})
	other := target(50)
	res := misses.ApplyStatusEffect(other, preset(t, reg, "crushing_blow"), false, true)
	assert.False(t, res.Success)
	assert.True(t, res.Resisted)
	assert.Empty(t, other.Effects)
}

func TestContentScripts_EveryPresetTypeIsKnown(t *testing.T) {
	_, reg := contentEngine(t, fixedSource{0})
	require.NotEmpty(t, reg.All())
	for _, def := range reg.All() {
		_, err := def.Instantiate("test")
		assert.NoError(t, err, def.ID)
	}
}

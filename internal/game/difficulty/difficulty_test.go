package difficulty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/realm/internal/config"
	"github.com/cory-johannsen/realm/internal/game/difficulty"
)

func TestByName_AllConfigPresetsResolve(t *testing.T) {
	for _, name := range config.Presets {
		p, err := difficulty.ByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name)
	}
	assert.Len(t, difficulty.Presets(), len(config.Presets))
}

func TestByName_CaseInsensitive(t *testing.T) {
	p, err := difficulty.ByName("hARD")
	require.NoError(t, err)
	assert.Equal(t, 1.25, p.EnemyDamageMultiplier)
	assert.True(t, p.DropAllInventory)
}

func TestByName_Unknown(t *testing.T) {
	_, err := difficulty.ByName("Nightmare")
	assert.ErrorIs(t, err, difficulty.ErrUnknownPreset)
}

func TestPresets_Flags(t *testing.T) {
	perma, err := difficulty.ByName("Permadeath")
	require.NoError(t, err)
	assert.True(t, perma.IsPermadeath)
	assert.True(t, perma.AutoSaveOnly)
	assert.Equal(t, 1.0, perma.GoldLossPercent)

	apoc, err := difficulty.ByName("Apocalypse")
	require.NoError(t, err)
	assert.True(t, apoc.IsApocalypse)
	assert.Equal(t, 240, apoc.ApocalypseMinutes)

	assert.Equal(t, 1.0, difficulty.Normal().EnemyHealthMultiplier)
}

func TestPresets_ReturnsCopy(t *testing.T) {
	all := difficulty.Presets()
	all[1].EnemyHealthMultiplier = 99
	assert.Equal(t, 1.0, difficulty.Normal().EnemyHealthMultiplier)
}

func TestFromConfig_Overrides(t *testing.T) {
	p, err := difficulty.FromConfig(config.DifficultyConfig{Preset: "Easy", EnemyHealthMultiplier: 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.EnemyHealthMultiplier)
	assert.Equal(t, 1.5, p.PlayerDamageMultiplier, "zero overrides keep the preset")

	_, err = difficulty.FromConfig(config.DifficultyConfig{Preset: "Bogus"})
	assert.ErrorIs(t, err, difficulty.ErrUnknownPreset)
}

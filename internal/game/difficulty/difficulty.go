// Package difficulty defines the difficulty presets that scale combat damage,
// enemy health, rewards and death penalties.
package difficulty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/realm/internal/config"
)

// ErrUnknownPreset is returned by ByName for names outside Presets.
var ErrUnknownPreset = errors.New("unknown difficulty preset")

// Profile is an immutable set of difficulty multipliers and penalty rules.
type Profile struct {
	Name string

	PlayerDamageMultiplier float64
	EnemyDamageMultiplier  float64
	EnemyHealthMultiplier  float64
	GoldXPMultiplier       float64

	// GoldLossPercent and XPLossPercent are fractions in [0, 1] lost on defeat.
	GoldLossPercent float64
	XPLossPercent   float64

	AutoSaveOnly      bool
	DropAllInventory  bool
	IsPermadeath      bool
	IsApocalypse      bool
	ApocalypseMinutes int
}

var presets = []Profile{
	{
		Name:                   "Easy",
		PlayerDamageMultiplier: 1.5, EnemyDamageMultiplier: 0.75, EnemyHealthMultiplier: 0.75,
		GoldXPMultiplier: 1.5, GoldLossPercent: 0.05, XPLossPercent: 0.10,
	},
	{
		Name:                   "Normal",
		PlayerDamageMultiplier: 1, EnemyDamageMultiplier: 1, EnemyHealthMultiplier: 1,
		GoldXPMultiplier: 1, GoldLossPercent: 0.10, XPLossPercent: 0.25,
	},
	{
		Name:                   "Hard",
		PlayerDamageMultiplier: 0.75, EnemyDamageMultiplier: 1.25, EnemyHealthMultiplier: 1.25,
		GoldXPMultiplier: 1, GoldLossPercent: 0.20, XPLossPercent: 0.50,
		DropAllInventory: true,
	},
	{
		Name:                   "Expert",
		PlayerDamageMultiplier: 0.5, EnemyDamageMultiplier: 1.5, EnemyHealthMultiplier: 1.5,
		GoldXPMultiplier: 1, GoldLossPercent: 0.30, XPLossPercent: 0.75,
		DropAllInventory: true,
	},
	{
		Name:                   "Ironman",
		PlayerDamageMultiplier: 0.75, EnemyDamageMultiplier: 1.25, EnemyHealthMultiplier: 1.25,
		GoldXPMultiplier: 1, GoldLossPercent: 0.25, XPLossPercent: 0.50,
		AutoSaveOnly: true, DropAllInventory: true,
	},
	{
		Name:                   "Permadeath",
		PlayerDamageMultiplier: 0.5, EnemyDamageMultiplier: 1.5, EnemyHealthMultiplier: 1.5,
		GoldXPMultiplier: 1, GoldLossPercent: 1, XPLossPercent: 1,
		AutoSaveOnly: true, IsPermadeath: true,
	},
	{
		Name:                   "Apocalypse",
		PlayerDamageMultiplier: 1, EnemyDamageMultiplier: 1, EnemyHealthMultiplier: 1,
		GoldXPMultiplier: 1, GoldLossPercent: 0.10, XPLossPercent: 0.25,
		IsApocalypse: true, ApocalypseMinutes: 240,
	},
}

// Normal returns the Normal preset.
func Normal() Profile { return presets[1] }

// Presets returns every preset in ascending severity order.
func Presets() []Profile {
	return append([]Profile(nil), presets...)
}

// ByName returns the preset named name, case-insensitively.
func ByName(name string) (Profile, error) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// FromConfig resolves cfg.Preset and applies any non-zero multiplier overrides.
func FromConfig(cfg config.DifficultyConfig) (Profile, error) {
	p, err := ByName(cfg.Preset)
	if err != nil {
		return Profile{}, err
	}
	if cfg.PlayerDamageMultiplier > 0 {
		p.PlayerDamageMultiplier = cfg.PlayerDamageMultiplier
	}
	if cfg.EnemyDamageMultiplier > 0 {
		p.EnemyDamageMultiplier = cfg.EnemyDamageMultiplier
	}
	if cfg.EnemyHealthMultiplier > 0 {
		p.EnemyHealthMultiplier = cfg.EnemyHealthMultiplier
	}
	if cfg.GoldXPMultiplier > 0 {
		p.GoldXPMultiplier = cfg.GoldXPMultiplier
	}
	return p, nil
}

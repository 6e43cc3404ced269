// Package main runs batches of automated encounters against one enemy
// template and reports how they ended.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/realm/internal/config"
	"github.com/cory-johannsen/realm/internal/game/ai"
	"github.com/cory-johannsen/realm/internal/game/combat"
	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/difficulty"
	"github.com/cory-johannsen/realm/internal/game/encounter"
	"github.com/cory-johannsen/realm/internal/game/inventory"
	"github.com/cory-johannsen/realm/internal/game/npc"
	"github.com/cory-johannsen/realm/internal/game/status"
	"github.com/cory-johannsen/realm/internal/observability"
	"github.com/cory-johannsen/realm/internal/scripting"
	"github.com/cory-johannsen/realm/internal/storage/postgres"
)

// Starting kit handed to every simulated player.
const (
	starterWeapon  = "iron_sword"
	starterPotion  = "minor_health_potion"
	starterPotions = 3
	backpackSlots  = 20
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	enemyID := flag.String("enemy", "goblin", "enemy template id to fight")
	trials := flag.Int("trials", 100, "number of encounters to run")
	strategyName := flag.String("strategy", "aggressive", "player strategy: aggressive, defensive or cautious")
	level := flag.Int("level", 3, "player level")
	parallel := flag.Int("parallel", runtime.NumCPU(), "maximum concurrent encounters")
	verbose := flag.Bool("verbose", false, "log every combat event")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	input, err := newStrategy(*strategyName)
	if err != nil {
		logger.Fatal("selecting strategy", zap.Error(err))
	}
	profile, err := difficulty.FromConfig(cfg.Difficulty)
	if err != nil {
		logger.Fatal("resolving difficulty", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	contentStart := time.Now()
	content, err := loadCatalogs(cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	tmpl, ok := content.enemies.Get(*enemyID)
	if !ok {
		logger.Fatal("unknown enemy", zap.String("enemy", *enemyID), zap.Strings("known", content.enemies.IDs()))
	}
	logger.Info("content loaded",
		zap.Int("abilities", len(content.abilities.All())),
		zap.Int("effects", len(content.effects.All())),
		zap.Int("enemies", len(content.enemies.IDs())),
		zap.Int("items", len(content.items.AllItems())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	var statusOpts []status.Option
	if dir := cfg.Content.ScriptsDir; dir != "" {
		mgr := scripting.NewManager(roller, logger)
		defer mgr.Close()
		if err := mgr.LoadScope(status.ScriptScope, dir, cfg.Content.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading effect scripts", zap.Error(err))
		}
		statusOpts = append(statusOpts, status.WithScripts(mgr))
	}

	engine := combat.NewEngine(cfg.Combat, profile, roller, logger,
		combat.WithStatusEngine(status.NewEngine(roller, logger, statusOpts...)),
		combat.WithEffectPresets(content.effects),
		combat.WithAbilities(content.abilities, ai.NewPolicy(content.abilities, roller, logger)),
		combat.WithLoot(npc.NewLooter(content.enemies, content.items, roller, logger)),
	)

	var saver encounter.Saver
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		saver = pool.Encounters()
	}

	var publisher encounter.Publisher = encounter.Publishers{}
	if *verbose {
		publisher = encounter.NewLogPublisher(logger)
	}

	var (
		mu    sync.Mutex
		tally = map[encounter.Outcome]int{}
		xp    int
		gold  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *parallel))
	for i := 0; i < *trials; i++ {
		g.Go(func() error {
			player, backpack, err := newPlayer(i, *level, content.items)
			if err != nil {
				return err
			}
			opts := []encounter.Option{
				encounter.WithPublisher(publisher),
				encounter.WithInventory(backpack, content.items),
			}
			if saver != nil {
				opts = append(opts, encounter.WithSaver(saver))
			}
			res, err := encounter.New(engine, input, logger, opts...).Run(gctx, player, tmpl.Spawn())
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			tally[res.Outcome]++
			xp += res.Rewards.XP
			gold += res.Rewards.Gold
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("simulation aborted", zap.Error(err))
	}

	logger.Info("simulation complete",
		zap.String("enemy", tmpl.ID),
		zap.String("strategy", input.name),
		zap.String("difficulty", profile.Name),
		zap.Int("trials", *trials),
		zap.Duration("elapsed", time.Since(start)),
	)
	fmt.Printf("%s vs %s (%s), %d trials\n", input.name, tmpl.Name, profile.Name, *trials)
	for _, o := range []encounter.Outcome{encounter.OutcomeVictory, encounter.OutcomeDefeat, encounter.OutcomeFled, encounter.OutcomeTimeout} {
		fmt.Printf("  %-8s %5d  (%5.1f%%)\n", o, tally[o], percent(tally[o], *trials))
	}
	fmt.Printf("  rewards  %d XP, %d gold\n", xp, gold)
}

// newPlayer builds the n-th simulated hero with the starter kit equipped and packed.
func newPlayer(n, level int, items *inventory.Registry) (*combatant.Player, *inventory.Backpack, error) {
	level = max(1, level)
	p := &combatant.Player{Mana: 30, MaxMana: 30}
	p.Name = fmt.Sprintf("Hero-%d", n+1)
	p.Level = level
	p.Attributes = combatant.Attributes{
		Strength:     8 + level,
		Dexterity:    8 + level/2,
		Constitution: 6 + level,
		Intelligence: 6,
		Wisdom:       8,
		Charisma:     6,
	}
	p.SetMaxHealth(80 + 10*level)

	equipment := inventory.NewEquipment()
	if def, ok := items.Item(starterWeapon); ok {
		if _, err := equipment.Equip(def); err != nil {
			return nil, nil, fmt.Errorf("equipping %s: %w", starterWeapon, err)
		}
	}
	equipment.ApplyTo(p, items)

	backpack := inventory.NewBackpack(backpackSlots)
	if _, ok := items.Item(starterPotion); ok {
		if err := backpack.Add(starterPotion, starterPotions, items); err != nil {
			return nil, nil, fmt.Errorf("packing %s: %w", starterPotion, err)
		}
	}
	return p, backpack, nil
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

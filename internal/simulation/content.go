// Package simulation loads combat content and drives batches of seeded
// encounters concurrently.
package simulation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/config"
	"github.com/cory-johannsen/centaur/internal/game/ai"
	"github.com/cory-johannsen/centaur/internal/game/inventory"
	"github.com/cory-johannsen/centaur/internal/game/npc"
	"github.com/cory-johannsen/centaur/internal/game/status"
	"github.com/cory-johannsen/centaur/internal/scripting"
)

// Content is the loaded, validated content an encounter is built from.
type Content struct {
	Statuses *status.Registry
	Policies *ai.Registry
	Enemies  *npc.Catalog
	Items    *inventory.Catalog
	// Scripts is nil when no scripts directory is configured.
	Scripts *scripting.Manager
}

// LoadContent loads every content kind named by cfg. Empty directories fall
// back to built-in defaults, except enemies, which must be configured.
//
// Precondition: cfg passes config validation; logger non-nil.
// Postcondition: every enemy in the catalog can build its strategy from
// Policies. Status hooks missing from the loaded scripts are logged at Warn.
func LoadContent(cfg config.ContentConfig, logger *zap.Logger) (*Content, error) {
	c := &Content{
		Statuses: status.DefaultRegistry(),
		Policies: ai.DefaultRegistry(),
		Items:    inventory.DefaultCatalog(),
	}
	var err error
	if cfg.StatusDir != "" {
		if c.Statuses, err = status.LoadDirectory(cfg.StatusDir); err != nil {
			return nil, fmt.Errorf("loading status effects: %w", err)
		}
	}
	if cfg.AIDir != "" {
		if c.Policies, err = ai.LoadRegistry(cfg.AIDir); err != nil {
			return nil, fmt.Errorf("loading ai policies: %w", err)
		}
	}
	if cfg.ItemsDir != "" {
		if c.Items, err = inventory.LoadCatalog(cfg.ItemsDir); err != nil {
			return nil, fmt.Errorf("loading items: %w", err)
		}
	}
	if c.Enemies, err = npc.LoadCatalog(cfg.EnemiesDir); err != nil {
		return nil, fmt.Errorf("loading enemies: %w", err)
	}
	for _, id := range c.Enemies.IDs() {
		def, _ := c.Enemies.Get(id)
		if _, err := def.Strategy(c.Policies); err != nil {
			return nil, fmt.Errorf("enemy %q: %w", id, err)
		}
		if err := c.checkDrops(def); err != nil {
			return nil, err
		}
	}
	if cfg.ScriptsDir != "" {
		c.Scripts = scripting.NewManager(logger)
		if err := c.Scripts.LoadDir(cfg.ScriptsDir, cfg.ScriptInstructionLimit); err != nil {
			return nil, fmt.Errorf("loading status scripts: %w", err)
		}
	}
	c.checkHooks(logger)

	logger.Info("content loaded",
		zap.Int("statuses", len(c.Statuses.All())),
		zap.Int("enemies", len(c.Enemies.IDs())),
		zap.Int("items", len(c.Items.All())),
		zap.Bool("scripts", c.Scripts != nil),
	)
	return c, nil
}

// Hooks returns the status hook dispatcher, or nil when no scripts are loaded.
func (c *Content) Hooks() status.HookCaller {
	if c.Scripts == nil {
		return nil
	}
	return c.Scripts
}

// Close releases the scripting VM.
func (c *Content) Close() {
	if c.Scripts != nil {
		c.Scripts.Close()
	}
}

// checkDrops rejects drop tables naming items the catalog does not know.
func (c *Content) checkDrops(def *npc.Definition) error {
	for _, d := range def.Drops.Items {
		if _, ok := c.Items.Item(d.ItemID); !ok {
			return fmt.Errorf("enemy %q drops unknown item %q", def.ID, d.ItemID)
		}
	}
	return nil
}

func (c *Content) checkHooks(logger *zap.Logger) {
	for _, def := range c.Statuses.All() {
		for _, hook := range []string{def.LuaOnApply, def.LuaOnTick, def.LuaOnExpire} {
			if hook == "" {
				continue
			}
			if c.Scripts == nil || !c.Scripts.HasHook(hook) {
				logger.Warn("status hook not defined",
					zap.String("status", def.Kind.String()),
					zap.String("hook", hook),
				)
			}
		}
	}
}

package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/config"
	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/handler"
	"github.com/lastcentaur/server/internal/persist"
	"github.com/lastcentaur/server/internal/scripting"
	"github.com/lastcentaur/server/internal/system"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// Tables bundles the static catalogues loaded at boot. Immutable after init
// and shared by every instance.
type Tables struct {
	Items        *data.ItemTable
	Enemies      *data.EnemyTable
	Discoveries  *data.DiscoveryTable
	Achievements *data.AchievementTable
	Abilities    *data.AbilityTable
	Npcs         *data.NpcTable
	Map          *data.MapTable
}

// LoadTables reads every catalogue from the data directory.
func LoadTables(dir string) (*Tables, error) {
	items, err := data.LoadItemTable(dir + "/items.yaml")
	if err != nil {
		return nil, err
	}
	enemies, err := data.LoadEnemyTable(dir + "/enemies.yaml")
	if err != nil {
		return nil, err
	}
	discoveries, err := data.LoadDiscoveryTable(dir + "/discoveries.yaml")
	if err != nil {
		return nil, err
	}
	achievements, err := data.LoadAchievementTable(dir + "/achievements.yaml")
	if err != nil {
		return nil, err
	}
	abilities, err := data.LoadAbilityTable(dir + "/abilities.yaml")
	if err != nil {
		return nil, err
	}
	npcs, err := data.LoadNpcTable(dir + "/npcs.yaml")
	if err != nil {
		return nil, err
	}
	maps, err := data.LoadMapTable(dir + "/map.yaml")
	if err != nil {
		return nil, err
	}
	return &Tables{
		Items: items, Enemies: enemies, Discoveries: discoveries,
		Achievements: achievements, Abilities: abilities, Npcs: npcs, Map: maps,
	}, nil
}

// Manager owns the live instances and the process-wide pieces they share:
// catalogues, parser, leaderboard, snapshot store.
type Manager struct {
	cfg         *config.Config
	tables      *Tables
	parser      *command.Parser
	store       persist.Store
	leaderboard *system.Leaderboard
	snap        *Snapshotter
	scriptDir   string
	enhancer    Enhancer
	log         *zap.Logger

	mu        sync.Mutex
	instances map[string]*Instance
}

// NewManager assembles the shared layer. store and leaderboard are wired by
// the caller so backends stay swappable.
func NewManager(cfg *config.Config, tables *Tables, store persist.Store,
	leaderboard *system.Leaderboard, enhancer Enhancer, log *zap.Logger) (*Manager, error) {
	snap, err := NewSnapshotter(tables.Map)
	if err != nil {
		return nil, err
	}
	if enhancer == nil {
		enhancer = NoopEnhancer{}
	}
	return &Manager{
		cfg:         cfg,
		tables:      tables,
		parser:      command.NewParser(),
		store:       store,
		leaderboard: leaderboard,
		snap:        snap,
		scriptDir:   cfg.Data.ScriptDir,
		enhancer:    enhancer,
		log:         log,
		instances:   make(map[string]*Instance),
	}, nil
}

// NewInstance starts a fresh game for the named player.
func (m *Manager) NewInstance(playerName string) (*Instance, error) {
	id := uuid.NewString()
	grid, err := m.tables.Map.BuildGrid()
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	st := world.NewState(id, playerName, grid)
	ApplyGuards(st, m.tables.Map)
	return m.register(id, st)
}

// Resume loads an instance from its snapshot. Returns persist.ErrNotFound
// when no snapshot exists.
func (m *Manager) Resume(ctx context.Context, id string) (*Instance, error) {
	m.mu.Lock()
	if inst, ok := m.instances[id]; ok {
		m.mu.Unlock()
		return inst, nil
	}
	m.mu.Unlock()

	raw, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := m.snap.Restore(id, raw)
	if err != nil {
		return nil, err
	}
	return m.register(id, st)
}

func (m *Manager) register(id string, st *world.State) (*Instance, error) {
	deps, err := m.buildDeps(id, st)
	if err != nil {
		return nil, err
	}
	inst := newInstance(id, st, deps, m.snap, m.store, m.enhancer, m.log)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.instances[id]; ok {
		inst.Close()
		return existing, nil
	}
	m.instances[id] = inst
	return inst, nil
}

// buildDeps wires the per-instance systems around a shared catalogue set.
func (m *Manager) buildDeps(id string, st *world.State) (*handler.Deps, error) {
	rng := NewRNG(id)
	log := m.log.With(zap.String("instance", id))

	weather := system.NewWeatherSystem(rng, log)
	resources := system.NewResourceSystem(weather)
	paths := system.NewPathSystem(m.tables.Abilities, weather, log)
	timeSys := system.NewTimeSystem(weather, resources, paths, log)
	combat := system.NewCombatSystem(m.tables.Enemies, m.tables.Items, paths,
		resources, weather, rng, log)
	discovery := system.NewDiscoverySystem(m.tables.Discoveries, rng, log)
	achieve := system.NewAchievementSystem(m.tables.Achievements, log)

	engine, err := scripting.NewEngine(m.scriptDir, log)
	if err != nil {
		return nil, fmt.Errorf("scripting: %w", err)
	}

	return &handler.Deps{
		Config:       m.cfg,
		Log:          log,
		Items:        m.tables.Items,
		Enemies:      m.tables.Enemies,
		Discoveries:  m.tables.Discoveries,
		Achievements: m.tables.Achievements,
		Abilities:    m.tables.Abilities,
		Npcs:         m.tables.Npcs,
		Map:          m.tables.Map,
		Parser:       m.parser,
		Time:         timeSys,
		Weather:      weather,
		Resources:    resources,
		Paths:        paths,
		Combat:       combat,
		Discovery:    discovery,
		Achieve:      achieve,
		Leaderboard:  m.leaderboard,
		Scripting:    engine,
	}, nil
}

// Get returns a running instance, or nil.
func (m *Manager) Get(id string) *Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instances[id]
}

// Release stops an instance and drops it from the manager. Its snapshot
// stays in the store for Resume.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	inst, ok := m.instances[id]
	delete(m.instances, id)
	m.mu.Unlock()
	if ok {
		inst.Close()
	}
}

// Shutdown stops every instance.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, inst := range m.instances {
		inst.Close()
		delete(m.instances, id)
	}
}

// ErrNoInstance is returned by transports when a command arrives for an id
// the manager does not hold.
var ErrNoInstance = errors.New("no such instance")

package system

import (
	"fmt"
	"math/rand"

	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

// Combat tuning.
const (
	basePlayerDamage   = 10
	surpriseChance     = 0.40 // stealth-style enemies, first turn only
	surpriseMultiplier = 1.5
	defendReduction    = 0.5
	dodgeChance        = 0.6
)

// Outcome is the result of one combat turn.
type Outcome struct {
	Lines   []string
	Victory bool
	Defeat  bool
	XP      int
	EnemyID string
}

// CombatSystem runs synchronous turn-based encounters. The encounter state
// lives on world.State and is transient.
type CombatSystem struct {
	enemies   *data.EnemyTable
	items     *data.ItemTable
	paths     *PathSystem
	resources *ResourceSystem
	weather   *WeatherSystem
	rng       *rand.Rand
	log       *zap.Logger
}

// NewCombatSystem wires the catalogue tables and sibling systems in.
func NewCombatSystem(enemies *data.EnemyTable, items *data.ItemTable, paths *PathSystem,
	resources *ResourceSystem, weather *WeatherSystem, rng *rand.Rand, log *zap.Logger) *CombatSystem {
	return &CombatSystem{
		enemies: enemies, items: items, paths: paths,
		resources: resources, weather: weather, rng: rng, log: log,
	}
}

// Engage opens an encounter against an enemy on the current tile. Any
// encounter already running continues instead.
func (s *CombatSystem) Engage(st *world.State, enemyID string) (*data.Enemy, error) {
	enemy := s.enemies.Get(enemyID)
	if enemy == nil {
		return nil, world.NewFailure(world.FailNotFound, fmt.Sprintf("There is no %s here to fight.", enemyID))
	}
	if !st.CurrentTile().HasEnemy(enemyID) {
		return nil, world.NewFailure(world.FailNotFound, fmt.Sprintf("The %s is not here.", enemy.Name))
	}
	if st.Combat != nil && st.Combat.EnemyID == enemyID {
		return enemy, nil
	}
	st.Combat = &world.ActiveCombat{
		EnemyID:         enemyID,
		EnemyHealth:     enemy.Health,
		PlayerCooldowns: make(map[string]int),
		EnemyCooldowns:  make(map[string]int),
	}
	return enemy, nil
}

// Attack runs one ATTACK turn: player strike, then the enemy's response.
func (s *CombatSystem) Attack(st *world.State, enemyID string) (*Outcome, error) {
	enemy, err := s.Engage(st, enemyID)
	if err != nil {
		return nil, err
	}
	out := &Outcome{EnemyID: enemy.ID}

	wasHidden := st.Stealth.Hidden
	weapon := s.bestWeaponDamage(st)
	dmg := s.paths.CalculateDamage(st, basePlayerDamage, weapon)
	dmg = s.applyAccuracy(st, dmg)
	if wasHidden {
		s.paths.BreakStealth(st)
		out.Lines = append(out.Lines, "You strike from the shadows!")
	}
	st.Combat.EnemyHealth -= dmg
	out.Lines = append(out.Lines, fmt.Sprintf("You hit the %s for %d damage.", enemy.Name, dmg))

	s.paths.RecordAction(st, ActionAttack)
	s.resources.MarkCombat(st)

	if st.Combat.EnemyHealth <= 0 {
		s.finishVictory(st, enemy, wasHidden, out)
		return out, nil
	}
	s.enemyTurn(st, enemy, true, false, out)
	s.endTurn(st, out)
	return out, nil
}

// Defend runs one DEFEND turn: incoming damage is halved.
func (s *CombatSystem) Defend(st *world.State) (*Outcome, error) {
	enemy, err := s.requireEncounter(st)
	if err != nil {
		return nil, err
	}
	out := &Outcome{EnemyID: enemy.ID}
	out.Lines = append(out.Lines, "You raise your guard.")
	s.enemyTurn(st, enemy, false, true, out)
	s.endTurn(st, out)
	return out, nil
}

// Dodge runs one DODGE turn: a successful roll avoids the enemy entirely.
func (s *CombatSystem) Dodge(st *world.State) (*Outcome, error) {
	enemy, err := s.requireEncounter(st)
	if err != nil {
		return nil, err
	}
	out := &Outcome{EnemyID: enemy.ID}
	if s.rng.Float64() < dodgeChance {
		out.Lines = append(out.Lines, fmt.Sprintf("You twist aside; the %s finds only air.", enemy.Name))
		st.Combat.Turn++
		s.tickCooldowns(st)
		return out, nil
	}
	out.Lines = append(out.Lines, "You misjudge the dodge.")
	s.enemyTurn(st, enemy, false, false, out)
	s.endTurn(st, out)
	return out, nil
}

// UseAbility runs one ABILITY turn with a player path ability.
func (s *CombatSystem) UseAbility(st *world.State, ab *data.PathAbility) (*Outcome, error) {
	enemy, err := s.requireEncounter(st)
	if err != nil {
		return nil, err
	}
	if st.Combat.PlayerCooldowns[ab.ID] > 0 {
		return nil, world.NewFailure(world.FailConflict,
			fmt.Sprintf("%s is still on cooldown for %d more turns.", ab.Name, st.Combat.PlayerCooldowns[ab.ID]))
	}
	if st.Player.Stats.Mana < ab.ManaCost {
		return nil, world.NewFailure(world.FailInsufficientResource,
			fmt.Sprintf("You lack the mana to use %s.", ab.Name))
	}
	if st.Player.Stats.Stamina < ab.StaminaCost {
		return nil, world.NewFailure(world.FailInsufficientResource,
			fmt.Sprintf("You are too exhausted to use %s.", ab.Name))
	}
	st.Player.Stats.AddMana(-ab.ManaCost)
	st.Player.Stats.AddStamina(-ab.StaminaCost)
	st.Combat.PlayerCooldowns[ab.ID] = ab.CooldownTurns

	out := &Outcome{EnemyID: enemy.ID}
	wasHidden := st.Stealth.Hidden
	dmg := s.paths.CalculateDamage(st, ab.Damage, 0)
	dmg = s.applyAccuracy(st, dmg)
	if wasHidden {
		s.paths.BreakStealth(st)
	}
	st.Combat.EnemyHealth -= dmg
	out.Lines = append(out.Lines, fmt.Sprintf("%s strikes the %s for %d damage.", ab.Name, enemy.Name, dmg))

	s.paths.RecordAction(st, ActionCastAbility)
	s.resources.MarkCombat(st)
	s.resources.MarkAbilityUse(st)

	if st.Combat.EnemyHealth <= 0 {
		s.finishVictory(st, enemy, wasHidden, out)
		return out, nil
	}
	s.enemyTurn(st, enemy, true, false, out)
	s.endTurn(st, out)
	return out, nil
}

// InCombat reports whether an encounter is running.
func (s *CombatSystem) InCombat(st *world.State) bool { return st.Combat != nil }

// Roll exposes the instance RNG stream for non-combat checks that must share
// its determinism.
func (s *CombatSystem) Roll() float64 { return s.rng.Float64() }

func (s *CombatSystem) requireEncounter(st *world.State) (*data.Enemy, error) {
	if st.Combat == nil {
		return nil, world.NewFailure(world.FailConflict, "You are not in combat.")
	}
	enemy := s.enemies.Get(st.Combat.EnemyID)
	if enemy == nil {
		st.Combat = nil
		return nil, world.NewFailure(world.FailInvariant, "The encounter has fallen apart.")
	}
	return enemy, nil
}

// enemyTurn resolves the enemy response per its combat style.
// playerAttacked gates the defensive counter; defending halves damage taken.
func (s *CombatSystem) enemyTurn(st *world.State, enemy *data.Enemy, playerAttacked, defending bool, out *Outcome) {
	var dmg int
	var action string

	switch enemy.CombatStyle {
	case data.StyleDefensive:
		if !playerAttacked {
			out.Lines = append(out.Lines, fmt.Sprintf("The %s holds its ground, watching you.", enemy.Name))
			return
		}
		dmg, action = enemy.Damage, "counter-attacks"
	case data.StyleTactical:
		if st.Combat.Turn%2 == 1 {
			dmg, action = s.enemyAbilityOrBasic(st, enemy)
		} else {
			dmg, action = enemy.Damage, "attacks"
		}
	case data.StyleMagical:
		dmg, action = s.enemyAbilityOrBasic(st, enemy)
	case data.StyleStealth:
		dmg, action = enemy.Damage, "attacks"
		if !st.Combat.SurpriseRolled {
			st.Combat.SurpriseRolled = true
			if s.rng.Float64() < surpriseChance {
				dmg = int(float64(dmg) * surpriseMultiplier)
				action = "strikes from an unseen angle"
			}
		}
	default: // aggressive
		dmg, action = enemy.Damage, "attacks"
	}

	dmg = s.applyAccuracy(st, dmg)
	if defending {
		dmg = int(float64(dmg) * defendReduction)
	}
	st.Player.Stats.AddHealth(-dmg)
	out.Lines = append(out.Lines, fmt.Sprintf("The %s %s you for %d damage.", enemy.Name, action, dmg))

	if st.Player.Stats.Health <= 0 {
		out.Defeat = true
		st.Combat = nil
		out.Lines = append(out.Lines, "Darkness takes you. Your journey ends here.")
		s.log.Info("player defeated",
			zap.String("instance", st.InstanceID),
			zap.String("enemy", enemy.ID))
	}
}

// enemyAbilityOrBasic picks the first off-cooldown ability, else the basic
// attack.
func (s *CombatSystem) enemyAbilityOrBasic(st *world.State, enemy *data.Enemy) (int, string) {
	for _, ab := range enemy.Abilities {
		if st.Combat.EnemyCooldowns[ab.Name] > 0 {
			continue
		}
		st.Combat.EnemyCooldowns[ab.Name] = ab.CooldownTurns
		return ab.Damage, fmt.Sprintf("unleashes %s on", ab.Name)
	}
	return enemy.Damage, "attacks"
}

// finishVictory removes the enemy from the tile, unblocks the gated exits,
// drops loot and advances the encounter to its end.
func (s *CombatSystem) finishVictory(st *world.State, enemy *data.Enemy, wasHidden bool, out *Outcome) {
	tile := st.CurrentTile()
	tile.RemoveEnemy(enemy.ID)
	st.Player.ClearBlocked(st.Player.Pos)
	for _, drop := range enemy.Drops {
		tile.Items = append(tile.Items, drop)
	}
	st.Combat = nil

	out.Victory = true
	out.XP = enemy.Health/2 + enemy.Damage
	out.Lines = append(out.Lines, fmt.Sprintf("The %s falls. You are victorious.", enemy.Name))
	if len(enemy.Drops) > 0 {
		out.Lines = append(out.Lines, fmt.Sprintf("The %s dropped: %s.", enemy.Name, joinNames(enemy.Drops)))
	}

	if wasHidden {
		s.paths.RecordAction(st, ActionStealthKill)
	} else {
		s.paths.RecordAction(st, ActionKill)
	}
	s.log.Info("enemy defeated",
		zap.String("instance", st.InstanceID),
		zap.String("enemy", enemy.ID),
		zap.Int("xp", out.XP))
}

func (s *CombatSystem) endTurn(st *world.State, out *Outcome) {
	if st.Combat == nil {
		return
	}
	st.Combat.Turn++
	s.tickCooldowns(st)
}

func (s *CombatSystem) tickCooldowns(st *world.State) {
	for id, t := range st.Combat.PlayerCooldowns {
		if t > 0 {
			st.Combat.PlayerCooldowns[id] = t - 1
		}
	}
	for id, t := range st.Combat.EnemyCooldowns {
		if t > 0 {
			st.Combat.EnemyCooldowns[id] = t - 1
		}
	}
}

// applyAccuracy scales damage by the weather's combat accuracy. Both sides
// take the same multiplier.
func (s *CombatSystem) applyAccuracy(st *world.State, dmg int) int {
	if s.weather == nil {
		return dmg
	}
	scaled := int(float64(dmg) * s.weather.Modifiers(st).CombatAccuracy)
	if scaled < 1 && dmg > 0 {
		return 1
	}
	return scaled
}

// bestWeaponDamage returns the strongest damage property among carried
// weapons, 0 when unarmed.
func (s *CombatSystem) bestWeaponDamage(st *world.State) int {
	best := 0
	for _, id := range st.Player.Inventory {
		item := s.items.Get(id)
		if item == nil || item.Type != data.ItemWeapon {
			continue
		}
		if d := item.Property("damage"); d > best {
			best = d
		}
	}
	return best
}

func joinNames(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out
}

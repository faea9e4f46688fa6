package handler

import (
	"fmt"
	"strings"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/world"
)

// HandleMove walks the player one tile. Stamina, exits, blockers and the
// destination's requirements are all checked before anything mutates.
func HandleMove(st *world.State, cmd command.Command, deps *Deps) *Result {
	if !cmd.Dir.Valid() {
		return failResult(world.NewFailure(world.FailUnknownCommand, "Which way? Try north, south, east or west."))
	}
	if st.Combat != nil {
		return failResult(world.NewFailure(world.FailConflict, "You cannot simply walk away from a fight."))
	}
	tile := st.CurrentTile()
	if !tile.HasExit(cmd.Dir) {
		return failResult(world.NewFailure(world.FailBlocked,
			fmt.Sprintf("There is no path leading %s from here.", cmd.Dir)))
	}
	next, fail := st.Grid.Neighbor(st.Player.Pos, cmd.Dir)
	if fail != nil {
		return failResult(fail)
	}
	if st.Player.IsBlocked(st.Player.Pos, cmd.Dir) {
		return failResult(world.NewFailure(world.FailBlocked,
			fmt.Sprintf("Something bars the way %s. You will have to deal with it first.", cmd.Dir)))
	}
	dest, fail := st.Grid.TileAt(next)
	if fail != nil {
		return failResult(fail)
	}
	if f := checkRequirements(st, deps, dest); f != nil {
		return failResult(f)
	}
	cost := deps.Config.Game.MoveStaminaCost
	if st.Player.Stats.Stamina < cost {
		return failResult(world.NewFailure(world.FailInsufficientResource,
			"Your legs tremble with exhaustion. You need to rest before moving on."))
	}

	st.Player.Stats.AddStamina(-cost)
	st.Player.Pos = next
	st.Player.CurrentArea = dest.Area
	st.Player.MarkVisited(next)
	dest.Visited = true
	st.History = append(st.History, next)

	res := &Result{Mutated: true}
	res.Effects = append(res.Effects, world.StatDelta("stamina", -cost))

	res.Text = fmt.Sprintf("You head %s.\n", cmd.Dir)
	if st.Stealth.Hidden && litTile(st, dest) {
		deps.Paths.BreakStealth(st)
		res.Text += "You step into the open; your cover is gone.\n"
	}

	res.Text += st.Grid.Describe(dest)
	if extra := tileContents(st, deps, dest); extra != "" {
		res.Text += "\n" + extra
	}
	res.Text += "\n" + describeExits(st)

	advanceTime(st, deps, res, deps.Config.Game.MoveMinutes)
	appendEvents(res, deps.Achieve.OnMove(st))
	return res
}

// checkRequirements gates entry to a tile on carried items, the selected
// path or a minimum path level.
func checkRequirements(st *world.State, deps *Deps, tile *world.Tile) *world.Failure {
	for kind, val := range tile.Requirements {
		switch kind {
		case "item":
			if !st.Player.HasItem(val) {
				return world.NewFailure(world.FailBlocked,
					fmt.Sprintf("An unseen force holds you back. You need the %s to pass.", itemDisplayName(deps, val)))
			}
		case "path":
			if st.Paths.Selected != world.PathType(val) {
				return world.NewFailure(world.FailBlocked,
					fmt.Sprintf("Only those sworn to the %s path may enter here.", val))
			}
		case "level":
			pp := st.Paths.Progress(st.Paths.Selected)
			need := parseLevel(val)
			if pp == nil || pp.Level < need {
				return world.NewFailure(world.FailBlocked,
					fmt.Sprintf("You are not yet strong enough to enter. Reach level %d first.", need))
			}
		}
	}
	return nil
}

func parseLevel(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// litTile reports whether the tile offers no concealment: daylight and
// nothing shadowed about the terrain.
func litTile(st *world.State, tile *world.Tile) bool {
	if st.Clock.TimeOfDay() == world.Night {
		return false
	}
	switch tile.Terrain {
	case world.TerrainShadowDomain, world.TerrainCave, world.TerrainTwilightGlade:
		return false
	}
	switch st.Weather.Current {
	case world.WeatherFog, world.WeatherShadowMist, world.WeatherStorm:
		return false
	}
	return true
}

// tileContents lists visible items, enemies and characters on the tile.
func tileContents(st *world.State, deps *Deps, tile *world.Tile) string {
	var lines []string
	for _, id := range tile.Items {
		lines = append(lines, fmt.Sprintf("You see %s here.", itemDisplayName(deps, id)))
	}
	for _, id := range tile.Enemies {
		name := id
		if e := deps.Enemies.Get(id); e != nil {
			name = e.Name
		}
		lines = append(lines, fmt.Sprintf("A %s blocks the way ahead.", name))
	}
	for _, id := range tile.Npcs {
		name := id
		if n := deps.Npcs.Get(id); n != nil {
			name = n.Name
		}
		lines = append(lines, fmt.Sprintf("%s is here.", name))
	}
	return strings.Join(lines, "\n")
}

// HandleMap renders the explored portion of the grid, north at the top.
func HandleMap(st *world.State, cmd command.Command, deps *Deps) *Result {
	var b strings.Builder
	b.WriteString("Known lands (@ marks you):\n")
	for y := world.GridSize - 1; y >= 0; y-- {
		for x := 0; x < world.GridSize; x++ {
			pos := world.Position{X: x, Y: y}
			switch {
			case pos == st.Player.Pos:
				b.WriteString("@")
			case st.Player.VisitedTiles[pos]:
				b.WriteString(mapRune(st, pos))
			default:
				b.WriteString("·")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("You have explored %s.", plural(len(st.Player.VisitedTiles), "tile")))
	return &Result{Text: b.String()}
}

func mapRune(st *world.State, pos world.Position) string {
	tile, fail := st.Grid.TileAt(pos)
	if fail != nil {
		return "?"
	}
	switch tile.Terrain {
	case world.TerrainForest, world.TerrainAncientForest, world.TerrainForgottenGrove:
		return "f"
	case world.TerrainMountain:
		return "^"
	case world.TerrainRuins, world.TerrainAncientRuins:
		return "r"
	case world.TerrainCave:
		return "o"
	case world.TerrainDesert:
		return "d"
	case world.TerrainShadowDomain:
		return "s"
	default:
		return "."
	}
}

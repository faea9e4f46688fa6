package handler

import (
	"fmt"
	"strings"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/data"
	"github.com/lastcentaur/server/internal/world"
)

// HandleTake picks an item off the tile.
func HandleTake(st *world.State, cmd command.Command, deps *Deps) *Result {
	item := resolveItem(deps, cmd.Target)
	if item == nil {
		return failResult(world.NewFailure(world.FailNotFound,
			fmt.Sprintf("There is no %s here.", cmd.Target)))
	}
	tile := st.CurrentTile()
	if !tile.HasItem(item.ID) {
		return failResult(world.NewFailure(world.FailNotFound,
			fmt.Sprintf("There is no %s here.", item.Name)))
	}
	if !item.CanBePickedUp {
		return failResult(world.NewFailure(world.FailConflict,
			fmt.Sprintf("The %s cannot be taken.", item.Name)))
	}
	if fail := st.Player.AddItem(item.ID); fail != nil {
		return failResult(fail)
	}
	tile.RemoveItem(item.ID)
	return &Result{
		Text:    fmt.Sprintf("You take the %s.", item.Name),
		Effects: []world.Effect{world.ItemAdded(item.ID)},
		Mutated: true,
	}
}

// HandleDrop places an inventory item on the tile.
func HandleDrop(st *world.State, cmd command.Command, deps *Deps) *Result {
	item := resolveItem(deps, cmd.Target)
	if item == nil || !st.Player.HasItem(item.ID) {
		return failResult(world.NewFailure(world.FailNotFound,
			fmt.Sprintf("You are not carrying a %s.", cmd.Target)))
	}
	st.Player.RemoveItem(item.ID)
	st.CurrentTile().Items = append(st.CurrentTile().Items, item.ID)
	return &Result{
		Text:    fmt.Sprintf("You set the %s down.", item.Name),
		Effects: []world.Effect{world.ItemRemoved(item.ID)},
		Mutated: true,
	}
}

// HandleInventory lists what the player carries.
func HandleInventory(st *world.State, cmd command.Command, deps *Deps) *Result {
	if len(st.Player.Inventory) == 0 {
		return &Result{Text: "You are carrying nothing."}
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are carrying (%d/%d):",
		len(st.Player.Inventory), st.Player.Stats.InventoryCapacity))
	for _, id := range st.Player.Inventory {
		b.WriteString("\n  ")
		b.WriteString(itemDisplayName(deps, id))
	}
	return &Result{Text: b.String()}
}

// HandleEat consumes a food item, easing hunger and restoring any stats the
// item grants.
func HandleEat(st *world.State, cmd command.Command, deps *Deps) *Result {
	item := resolveItem(deps, cmd.Target)
	if item == nil || !st.Player.HasItem(item.ID) {
		return failResult(world.NewFailure(world.FailNotFound,
			fmt.Sprintf("You have no %s to eat.", cmd.Target)))
	}
	if item.Type != data.ItemConsumable {
		return failResult(world.NewFailure(world.FailConflict,
			fmt.Sprintf("The %s is not something you can eat.", item.Name)))
	}
	st.Player.RemoveItem(item.ID)
	deps.Resources.Eat(st, item)

	res := &Result{
		Text:    fmt.Sprintf("You eat the %s. The gnawing in your stomach eases.", item.Name),
		Effects: []world.Effect{world.ItemRemoved(item.ID)},
		Mutated: true,
	}
	if heal := item.Property("heal"); heal > 0 {
		res.Effects = append(res.Effects, world.StatDelta("health", heal))
	}
	if stam := item.Property("stamina"); stam > 0 {
		res.Effects = append(res.Effects, world.StatDelta("stamina", stam))
	}
	if mana := item.Property("mana"); mana > 0 {
		res.Effects = append(res.Effects, world.StatDelta("mana", mana))
	}
	return res
}

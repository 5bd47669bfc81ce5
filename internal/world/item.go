package world

import (
	"github.com/questgo/server/internal/core/timer"
	"github.com/questgo/server/internal/data"
)

// Item is the loot component. Chests carry the kinds they can yield.
type Item struct {
	Static    bool // respawns after removal
	FromChest bool
	Contents  []data.Kind

	blink   timer.Slot
	despawn timer.Slot
	respawn timer.Slot
}

// dropped items are announced by DROP, never by a group spawn.
func (it *Item) dropped(kind data.Kind) bool {
	return !kind.IsChest() && !it.Static && !it.FromChest
}

// BlinkPending reports whether the item is still waiting to start blinking.
func (it *Item) BlinkPending() bool { return it.blink.Pending() }

// DespawnPending reports whether the item is blinking towards removal.
func (it *Item) DespawnPending() bool { return it.despawn.Pending() }

func (it *Item) cancelTimers() {
	it.blink.Cancel()
	it.despawn.Cancel()
}

package world

import "github.com/questgo/server/internal/data"

// ChestArea is a plain area around static mobs. Clearing it spawns a chest
// at (ChestX, ChestY) holding Items.
type ChestArea struct {
	*Area
	ChestX int
	ChestY int
	Items  []data.Kind
}

func newChestArea(w *World, id int, info data.ChestAreaInfo) *ChestArea {
	a := &ChestArea{
		Area:   NewArea(id, info.X, info.Y, info.W, info.H, w.bus),
		ChestX: info.TX,
		ChestY: info.TY,
		Items:  kindsOf(info.Items),
	}
	a.Chest = true
	return a
}

func kindsOf(ids []int) []data.Kind {
	out := make([]data.Kind, len(ids))
	for i, id := range ids {
		out[i] = data.Kind(id)
	}
	return out
}

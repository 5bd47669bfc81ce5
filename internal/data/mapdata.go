package data

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
)

// Zone dimensions in tiles. A group is one zone-sized cell of the map.
const (
	ZoneWidth  = 28
	ZoneHeight = 12
)

// GroupID is the coordinate of a zone cell.
type GroupID struct {
	X, Y int
}

func (g GroupID) String() string { return strconv.Itoa(g.X) + "-" + strconv.Itoa(g.Y) }

// Checkpoint is a labelled rectangle used for spawn selection.
type Checkpoint struct {
	ID       int
	X, Y     int
	W, H     int
	Starting bool
}

// RandomPosition returns a uniformly random tile inside the rectangle.
func (c *Checkpoint) RandomPosition(rng *rand.Rand) (int, int) {
	return c.X + rng.Intn(max(c.W, 1)), c.Y + rng.Intn(max(c.H, 1))
}

// RoamingArea describes a roaming mob population.
type RoamingArea struct {
	ID     int    `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Nb     int    `json:"nb"`
}

// ChestAreaInfo is a region whose cleared mobs reward a chest at (TX, TY).
type ChestAreaInfo struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	W     int   `json:"w"`
	H     int   `json:"h"`
	Items []int `json:"i"`
	TX    int   `json:"tx"`
	TY    int   `json:"ty"`
}

// StaticChest is a chest that is always present and respawns after opening.
type StaticChest struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Items []int `json:"i"`
}

// Door links the group of (X, Y) to the group of (TX, TY).
type Door struct {
	X  int `json:"x"`
	Y  int `json:"y"`
	TX int `json:"tx"`
	TY int `json:"ty"`
}

// StaticEntity is a fixed placement keyed by 1-based tile index.
type StaticEntity struct {
	TileIndex int
	Kind      string
}

type checkpointJSON struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
	W  int `json:"w"`
	H  int `json:"h"`
	S  int `json:"s"`
}

type mapFile struct {
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Collisions     []int             `json:"collisions"`
	RoamingAreas   []RoamingArea     `json:"roamingAreas"`
	ChestAreas     []ChestAreaInfo   `json:"chestAreas"`
	StaticChests   []StaticChest     `json:"staticChests"`
	StaticEntities map[string]string `json:"staticEntities"`
	Doors          []Door            `json:"doors"`
	Checkpoints    []checkpointJSON  `json:"checkpoints"`
}

// Map is the parsed, read-only world map: collision grid, zone partition,
// group adjacency and checkpoints. Shared by every world after load.
type Map struct {
	Width, Height           int
	GroupWidth, GroupHeight int

	RoamingAreas   []RoamingArea
	ChestAreas     []ChestAreaInfo
	StaticChests   []StaticChest
	StaticEntities []StaticEntity

	grid        []bool
	connected   map[GroupID][]GroupID
	adjacent    map[GroupID][]GroupID
	checkpoints map[int]*Checkpoint
	starting    []*Checkpoint
}

// LoadMap reads and parses a map description file.
func LoadMap(path string) (*Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	m, err := ParseMap(raw)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", path, err)
	}
	return m, nil
}

func ParseMap(raw []byte) (*Map, error) {
	var f mapFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", f.Width, f.Height)
	}

	m := &Map{
		Width:        f.Width,
		Height:       f.Height,
		GroupWidth:   f.Width / ZoneWidth,
		GroupHeight:  f.Height / ZoneHeight,
		RoamingAreas: f.RoamingAreas,
		ChestAreas:   f.ChestAreas,
		StaticChests: f.StaticChests,
	}
	m.initGrid(f.Collisions)
	m.initConnectedGroups(f.Doors)
	m.initAdjacency()
	m.initCheckpoints(f.Checkpoints)

	for key, kind := range f.StaticEntities {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("static entity tile %q: %w", key, err)
		}
		m.StaticEntities = append(m.StaticEntities, StaticEntity{TileIndex: idx, Kind: kind})
	}
	sort.Slice(m.StaticEntities, func(i, j int) bool {
		return m.StaticEntities[i].TileIndex < m.StaticEntities[j].TileIndex
	})
	return m, nil
}

// initGrid marks colliding tiles. Collision indices are 0-based, row-major.
func (m *Map) initGrid(collisions []int) {
	m.grid = make([]bool, m.Width*m.Height)
	for _, idx := range collisions {
		if idx >= 0 && idx < len(m.grid) {
			m.grid[idx] = true
		}
	}
}

func (m *Map) initConnectedGroups(doors []Door) {
	m.connected = make(map[GroupID][]GroupID)
	for _, d := range doors {
		from := GroupAt(d.X, d.Y)
		to := GroupAt(d.TX, d.TY)
		m.connected[from] = append(m.connected[from], to)
	}
}

// initAdjacency precomputes, per group, the 3x3 neighbourhood (itself
// included) plus door-linked groups, deduplicated and clipped to the map.
func (m *Map) initAdjacency() {
	m.adjacent = make(map[GroupID][]GroupID, m.GroupWidth*m.GroupHeight)
	m.ForEachGroup(func(g GroupID) {
		list := make([]GroupID, 0, 9)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				list = append(list, GroupID{g.X + dx, g.Y + dy})
			}
		}
		for _, c := range m.connected[g] {
			if !containsGroup(list, c) {
				list = append(list, c)
			}
		}
		kept := list[:0]
		for _, p := range list {
			if m.HasGroup(p) {
				kept = append(kept, p)
			}
		}
		m.adjacent[g] = kept
	})
}

func containsGroup(list []GroupID, g GroupID) bool {
	for _, p := range list {
		if p == g {
			return true
		}
	}
	return false
}

func (m *Map) initCheckpoints(list []checkpointJSON) {
	m.checkpoints = make(map[int]*Checkpoint, len(list))
	for _, cp := range list {
		c := &Checkpoint{ID: cp.ID, X: cp.X, Y: cp.Y, W: cp.W, H: cp.H, Starting: cp.S == 1}
		m.checkpoints[c.ID] = c
		if c.Starting {
			m.starting = append(m.starting, c)
		}
	}
}

// GroupAt maps a tile to its zone cell.
func GroupAt(x, y int) GroupID {
	return GroupID{X: floorDiv(x-1, ZoneWidth), Y: floorDiv(y-1, ZoneHeight)}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// HasGroup reports whether g is a cell of this map's partition.
func (m *Map) HasGroup(g GroupID) bool {
	return g.X >= 0 && g.Y >= 0 && g.X < m.GroupWidth && g.Y < m.GroupHeight
}

// ForEachGroup visits every group once, row by row.
func (m *Map) ForEachGroup(fn func(GroupID)) {
	for y := 0; y < m.GroupHeight; y++ {
		for x := 0; x < m.GroupWidth; x++ {
			fn(GroupID{x, y})
		}
	}
}

// AdjacentGroups returns the broadcast neighbourhood of g. Callers must not modify it.
func (m *Map) AdjacentGroups(g GroupID) []GroupID {
	return m.adjacent[g]
}

func (m *Map) IsOutOfBounds(x, y int) bool {
	return x <= 0 || x >= m.Width || y <= 0 || y >= m.Height
}

// IsColliding is only ever true for in-bounds tiles.
func (m *Map) IsColliding(x, y int) bool {
	if m.IsOutOfBounds(x, y) {
		return false
	}
	return m.grid[y*m.Width+x]
}

func (m *Map) IsValidPosition(x, y int) bool {
	return !m.IsOutOfBounds(x, y) && !m.IsColliding(x, y)
}

// TileIndexToGridPosition converts a 1-based tile index to grid coordinates.
func (m *Map) TileIndexToGridPosition(idx int) (int, int) {
	if idx <= 0 {
		return 0, 0
	}
	return (idx - 1) % m.Width, (idx - 1) / m.Width
}

func (m *Map) GridPositionToTileIndex(x, y int) int {
	return y*m.Width + x + 1
}

// Checkpoint looks a checkpoint up by id.
func (m *Map) Checkpoint(id int) (*Checkpoint, bool) {
	c, ok := m.checkpoints[id]
	return c, ok
}

func (m *Map) CheckpointCount() int { return len(m.checkpoints) }

func (m *Map) StartingAreas() []*Checkpoint { return m.starting }

const maxPositionAttempts = 100

// RandomPositionIn rejection-samples a walkable tile inside c. When no
// walkable tile turns up it returns the last candidate and false.
func (m *Map) RandomPositionIn(c *Checkpoint, rng *rand.Rand) (int, int, bool) {
	var x, y int
	for i := 0; i < maxPositionAttempts; i++ {
		x, y = c.RandomPosition(rng)
		if m.IsValidPosition(x, y) {
			return x, y, true
		}
	}
	return x, y, false
}

// RandomStartingPosition picks a starting checkpoint uniformly, then a
// walkable tile inside it.
func (m *Map) RandomStartingPosition(rng *rand.Rand) (int, int, bool) {
	if len(m.starting) == 0 {
		return 0, 0, false
	}
	return m.RandomPositionIn(m.starting[rng.Intn(len(m.starting))], rng)
}

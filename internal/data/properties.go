package data

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed properties.yaml
var defaultProperties []byte

// Drop is one entry of a mob's drop table.
type Drop struct {
	Item   string `yaml:"item"`
	Chance int    `yaml:"chance"` // percent
}

// MobProperties is the stat block of one mob kind.
type MobProperties struct {
	HP     int    `yaml:"hp"`
	Armor  int    `yaml:"armor"`
	Weapon int    `yaml:"weapon"`
	Drops  []Drop `yaml:"drops"`

	kind  Kind
	drops []Kind
}

type propertiesFile struct {
	Mobs map[string]*MobProperties `yaml:"mobs"`
}

// Properties holds mob stat blocks indexed by kind.
type Properties struct {
	mobs map[Kind]*MobProperties
}

// LoadProperties reads the table at path, or the embedded table when path is empty.
func LoadProperties(path string) (*Properties, error) {
	raw := defaultProperties
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read properties: %w", err)
		}
		raw = b
	}
	return ParseProperties(raw)
}

func ParseProperties(raw []byte) (*Properties, error) {
	var f propertiesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	p := &Properties{mobs: make(map[Kind]*MobProperties, len(f.Mobs))}
	for name, mp := range f.Mobs {
		kind, ok := KindFromString(name)
		if !ok || !kind.IsMob() {
			return nil, fmt.Errorf("properties: %q is not a mob kind", name)
		}
		if mp.HP <= 0 {
			return nil, fmt.Errorf("properties: %s has no hit points", name)
		}
		mp.kind = kind
		mp.drops = make([]Kind, len(mp.Drops))
		for i, d := range mp.Drops {
			item, ok := KindFromString(d.Item)
			if !ok || !item.IsItem() {
				return nil, fmt.Errorf("properties: %s drops unknown item %q", name, d.Item)
			}
			mp.drops[i] = item
		}
		p.mobs[kind] = mp
	}
	return p, nil
}

// Mob returns the stat block for a mob kind.
func (p *Properties) Mob(kind Kind) (*MobProperties, bool) {
	mp, ok := p.mobs[kind]
	return mp, ok
}

// Count returns the number of mob kinds with a stat block.
func (p *Properties) Count() int { return len(p.mobs) }

// HitPoints is the full health of a mob kind.
func (p *Properties) HitPoints(kind Kind) int {
	if mp, ok := p.mobs[kind]; ok {
		return mp.HP
	}
	return 0
}

// ArmorLevel resolves the armor level of a mob from its stat block and of
// equipment from its rank.
func (p *Properties) ArmorLevel(kind Kind) int {
	if mp, ok := p.mobs[kind]; ok {
		return mp.Armor
	}
	return kind.ArmorRank() + 1
}

// WeaponLevel resolves the weapon level the same way as ArmorLevel.
func (p *Properties) WeaponLevel(kind Kind) int {
	if mp, ok := p.mobs[kind]; ok {
		return mp.Weapon
	}
	return kind.WeaponRank() + 1
}

// RollDrop picks the item a dead mob leaves behind, if any.
func (p *Properties) RollDrop(kind Kind, rng *rand.Rand) (Kind, bool) {
	mp, ok := p.mobs[kind]
	if !ok {
		return 0, false
	}
	v := rng.Intn(100)
	total := 0
	for i, d := range mp.Drops {
		total += d.Chance
		if v <= total {
			return mp.drops[i], true
		}
	}
	return 0, false
}

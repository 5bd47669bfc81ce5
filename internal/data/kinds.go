package data

import "strings"

// Kind identifies what an entity is: a player class, a mob, an NPC or an item.
type Kind int

const (
	Warrior Kind = 1

	// Mobs
	Rat         Kind = 2
	Skeleton    Kind = 3
	Goblin      Kind = 4
	Ogre        Kind = 5
	Spectre     Kind = 6
	Crab        Kind = 7
	Bat         Kind = 8
	Wizard      Kind = 9
	Eye         Kind = 10
	Snake       Kind = 11
	Skeleton2   Kind = 12
	Boss        Kind = 13
	Deathknight Kind = 14

	// Armors
	Firefox      Kind = 20
	ClothArmor   Kind = 21
	LeatherArmor Kind = 22
	MailArmor    Kind = 23
	PlateArmor   Kind = 24
	RedArmor     Kind = 25
	GoldenArmor  Kind = 26

	// Objects
	Flask      Kind = 35
	Burger     Kind = 36
	Chest      Kind = 37
	Firepotion Kind = 38
	Cake       Kind = 39

	// NPCs
	Guard       Kind = 40
	King        Kind = 41
	Octocat     Kind = 42
	VillageGirl Kind = 43
	Villager    Kind = 44
	Priest      Kind = 45
	Scientist   Kind = 46
	Agent       Kind = 47
	Rick        Kind = 48
	Nyan        Kind = 49
	Sorcerer    Kind = 50
	BeachNpc    Kind = 51
	ForestNpc   Kind = 52
	DesertNpc   Kind = 53
	LavaNpc     Kind = 54
	Coder       Kind = 55

	// Weapons
	Sword1      Kind = 60
	Sword2      Kind = 61
	RedSword    Kind = 62
	GoldenSword Kind = 63
	MorningStar Kind = 64
	Axe         Kind = 65
	BlueSword   Kind = 66
)

// Category groups kinds by the role they play in the world.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryPlayer
	CategoryMob
	CategoryArmor
	CategoryObject
	CategoryNpc
	CategoryWeapon
)

type kindInfo struct {
	name     string
	category Category
}

var kinds = map[Kind]kindInfo{
	Warrior: {"warrior", CategoryPlayer},

	Rat:         {"rat", CategoryMob},
	Skeleton:    {"skeleton", CategoryMob},
	Goblin:      {"goblin", CategoryMob},
	Ogre:        {"ogre", CategoryMob},
	Spectre:     {"spectre", CategoryMob},
	Crab:        {"crab", CategoryMob},
	Bat:         {"bat", CategoryMob},
	Wizard:      {"wizard", CategoryMob},
	Eye:         {"eye", CategoryMob},
	Snake:       {"snake", CategoryMob},
	Skeleton2:   {"skeleton2", CategoryMob},
	Boss:        {"boss", CategoryMob},
	Deathknight: {"deathknight", CategoryMob},

	Firefox:      {"firefox", CategoryArmor},
	ClothArmor:   {"clotharmor", CategoryArmor},
	LeatherArmor: {"leatherarmor", CategoryArmor},
	MailArmor:    {"mailarmor", CategoryArmor},
	PlateArmor:   {"platearmor", CategoryArmor},
	RedArmor:     {"redarmor", CategoryArmor},
	GoldenArmor:  {"goldenarmor", CategoryArmor},

	Flask:      {"flask", CategoryObject},
	Burger:     {"burger", CategoryObject},
	Chest:      {"chest", CategoryObject},
	Firepotion: {"firepotion", CategoryObject},
	Cake:       {"cake", CategoryObject},

	Guard:       {"guard", CategoryNpc},
	King:        {"king", CategoryNpc},
	Octocat:     {"octocat", CategoryNpc},
	VillageGirl: {"villagegirl", CategoryNpc},
	Villager:    {"villager", CategoryNpc},
	Priest:      {"priest", CategoryNpc},
	Scientist:   {"scientist", CategoryNpc},
	Agent:       {"agent", CategoryNpc},
	Rick:        {"rick", CategoryNpc},
	Nyan:        {"nyan", CategoryNpc},
	Sorcerer:    {"sorcerer", CategoryNpc},
	BeachNpc:    {"beachnpc", CategoryNpc},
	ForestNpc:   {"forestnpc", CategoryNpc},
	DesertNpc:   {"desertnpc", CategoryNpc},
	LavaNpc:     {"lavanpc", CategoryNpc},
	Coder:       {"coder", CategoryNpc},

	Sword1:      {"sword1", CategoryWeapon},
	Sword2:      {"sword2", CategoryWeapon},
	RedSword:    {"redsword", CategoryWeapon},
	GoldenSword: {"goldensword", CategoryWeapon},
	MorningStar: {"morningstar", CategoryWeapon},
	Axe:         {"axe", CategoryWeapon},
	BlueSword:   {"bluesword", CategoryWeapon},
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kinds))
	for k, info := range kinds {
		m[info.name] = k
	}
	return m
}()

// Ranked equipment; a player's armor or weapon level is its rank + 1.
var (
	rankedArmors  = []Kind{ClothArmor, LeatherArmor, MailArmor, PlateArmor, RedArmor, GoldenArmor}
	rankedWeapons = []Kind{Sword1, Sword2, Axe, MorningStar, BlueSword, RedSword, GoldenSword}
)

// KindFromString resolves a kind name as used in map files ("rat", "flask").
func KindFromString(name string) (Kind, bool) {
	k, ok := kindsByName[strings.ToLower(name)]
	return k, ok
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "unknown"
}

func (k Kind) Category() Category { return kinds[k].category }

func (k Kind) IsPlayer() bool { return k.Category() == CategoryPlayer }
func (k Kind) IsMob() bool    { return k.Category() == CategoryMob }
func (k Kind) IsNpc() bool    { return k.Category() == CategoryNpc }
func (k Kind) IsArmor() bool  { return k.Category() == CategoryArmor }
func (k Kind) IsWeapon() bool { return k.Category() == CategoryWeapon }
func (k Kind) IsObject() bool { return k.Category() == CategoryObject }
func (k Kind) IsChest() bool  { return k == Chest }

// IsCharacter covers everything that has hit points and an orientation.
// NPCs are scenery and carry neither.
func (k Kind) IsCharacter() bool { return k.IsPlayer() || k.IsMob() }

// IsItem is anything a player can pick up: equipment and every object but the chest.
func (k Kind) IsItem() bool {
	return k.IsWeapon() || k.IsArmor() || (k.IsObject() && !k.IsChest())
}

func (k Kind) IsHealingItem() bool { return k == Flask || k == Burger }

// HealAmount is what a healing item restores.
func (k Kind) HealAmount() int {
	switch k {
	case Flask:
		return 40
	case Burger:
		return 100
	}
	return 0
}

// ArmorRank returns the position in the armor progression, -1 if unranked.
func (k Kind) ArmorRank() int { return indexOf(rankedArmors, k) }

// WeaponRank returns the position in the weapon progression, -1 if unranked.
func (k Kind) WeaponRank() int { return indexOf(rankedWeapons, k) }

// EquipmentLevel is rank + 1 for ranked armors and weapons, 0 otherwise.
func (k Kind) EquipmentLevel() int {
	if k.IsArmor() {
		return k.ArmorRank() + 1
	}
	if k.IsWeapon() {
		return k.WeaponRank() + 1
	}
	return 0
}

func indexOf(list []Kind, k Kind) int {
	for i, v := range list {
		if v == k {
			return i
		}
	}
	return -1
}

// Orientation is the facing of a character.
type Orientation int

const (
	Up    Orientation = 1
	Down  Orientation = 2
	Left  Orientation = 3
	Right Orientation = 4
)

// Orientations lists the four facings in the order random selection indexes them.
var Orientations = [4]Orientation{Left, Right, Up, Down}

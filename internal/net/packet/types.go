package packet

import "strconv"

// Type is the leading discriminant of every wire message.
type Type int

const (
	TypeHello Type = iota
	TypeWelcome
	TypeSpawn
	TypeDespawn
	TypeMove
	TypeLootMove
	TypeAggro
	TypeAttack
	TypeHit
	TypeHurt
	TypeHealth
	TypeChat
	TypeLoot
	TypeEquip
	TypeDrop
	TypeTeleport
	TypeDamage
	TypePopulation
	TypeKill
	TypeList
	TypeWho
	TypeZone
	TypeDestroy
	TypeHP
	TypeBlink
	TypeOpen
	TypeCheck
)

var typeNames = [...]string{
	TypeHello:      "HELLO",
	TypeWelcome:    "WELCOME",
	TypeSpawn:      "SPAWN",
	TypeDespawn:    "DESPAWN",
	TypeMove:       "MOVE",
	TypeLootMove:   "LOOTMOVE",
	TypeAggro:      "AGGRO",
	TypeAttack:     "ATTACK",
	TypeHit:        "HIT",
	TypeHurt:       "HURT",
	TypeHealth:     "HEALTH",
	TypeChat:       "CHAT",
	TypeLoot:       "LOOT",
	TypeEquip:      "EQUIP",
	TypeDrop:       "DROP",
	TypeTeleport:   "TELEPORT",
	TypeDamage:     "DAMAGE",
	TypePopulation: "POPULATION",
	TypeKill:       "KILL",
	TypeList:       "LIST",
	TypeWho:        "WHO",
	TypeZone:       "ZONE",
	TypeDestroy:    "DESTROY",
	TypeHP:         "HP",
	TypeBlink:      "BLINK",
	TypeOpen:       "OPEN",
	TypeCheck:      "CHECK",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "UNKNOWN(" + strconv.Itoa(int(t)) + ")"
}

// TypeOf reads the discriminant of a decoded message. It fails for an
// empty message or a non-integral leading value.
func TypeOf(msg []any) (Type, bool) {
	if len(msg) == 0 {
		return 0, false
	}
	n, ok := msg[0].(float64)
	if !ok || n != float64(int(n)) {
		return 0, false
	}
	return Type(n), true
}

package event

// AreaEmptied fires when the last live member leaves an area that had
// completely respawned.
type AreaEmptied struct {
	AreaID int
	Chest  bool
}

// PlayerEntered fires after a successful handshake (first or after death).
type PlayerEntered struct {
	PlayerID int
	Name     string
}

// PlayerLeft fires after a player's session is torn down.
type PlayerLeft struct {
	PlayerID int
	Name     string
}

// MobKilled fires when a mob's hit points reach zero.
type MobKilled struct {
	MobID    int
	Kind     int
	PlayerID int
}

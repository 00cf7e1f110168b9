package component

// Player holds tuning and per-frame movement state of the player.
type Player struct {
	MoveSpeed float64
	JumpSpeed float64

	Grounded      bool
	MovingLeft    bool
	MovingRight   bool
	JumpRequested bool
	// Facing is +1 or -1 and follows the last nonzero horizontal intent.
	Facing float64
}

var PlayerComponent = NewComponent[Player]()

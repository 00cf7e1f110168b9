package component

// Intent is the boolean input snapshot the controller reads once per frame.
// Jump and Fire are edges: true only on the frame the input goes down.
type Intent struct {
	MoveLeft  bool
	MoveRight bool
	Jump      bool
	JumpHeld  bool
	Fire      bool
}

var IntentComponent = NewComponent[Intent]()

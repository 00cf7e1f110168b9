package component

// PlayerTag marks the definitive player the controller drives.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// PendingDestroy marks an entity whose destruction is queued.
type PendingDestroy struct {
	Reason string
}

var PendingDestroyComponent = NewComponent[PendingDestroy]()

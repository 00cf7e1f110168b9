package ecs

import (
	"strconv"

	"github.com/milk9111/crate/ecs/component"
)

// Entity packs a slot id in the low 32 bits and the slot generation in the
// high 32 bits. The zero Entity is never alive.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// Ref returns a weak reference suitable for storing in components.
func (e Entity) Ref() component.EntityRef {
	return component.EntityRef(e)
}

// FromRef converts a weak reference back into an entity handle. The result
// must still be checked with IsAlive.
func FromRef(ref component.EntityRef) Entity {
	return Entity(ref)
}

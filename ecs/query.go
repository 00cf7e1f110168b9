package ecs

func snapshot(s store) []entityID {
	ids := s.ids()
	out := make([]entityID, len(ids))
	copy(out, ids)
	return out
}

// intersect returns the ids present in every store, in the order of the
// smallest store.
func intersect(stores ...store) []entityID {
	if len(stores) == 0 {
		return nil
	}
	smallest := stores[0]
	for _, s := range stores[1:] {
		if s.len() < smallest.len() {
			smallest = s
		}
	}
	out := make([]entityID, 0, smallest.len())
outer:
	for _, id := range smallest.ids() {
		for _, s := range stores {
			if !s.has(id) {
				continue outer
			}
		}
		out = append(out, id)
	}
	return out
}

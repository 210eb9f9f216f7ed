package entity

// Roster is the ordered set of entities on the map.
type Roster struct {
	entities []*Entity
}

func NewRoster(entities ...*Entity) *Roster {
	return &Roster{entities: entities}
}

func (r *Roster) Add(e *Entity) int {
	r.entities = append(r.entities, e)
	return len(r.entities) - 1
}

func (r *Roster) All() []*Entity {
	return r.entities
}

func (r *Roster) Len() int {
	return len(r.entities)
}

// Get returns the entity at index i, or nil.
func (r *Roster) Get(i int) *Entity {
	if i < 0 || i >= len(r.entities) {
		return nil
	}
	return r.entities[i]
}

// At returns the index of the first entity standing on (x,y), or -1.
func (r *Roster) At(x, y int) int {
	for i, e := range r.entities {
		if p := e.Position(); p.X == x && p.Y == y {
			return i
		}
	}
	return -1
}

// IndexOf returns the index of the entity with the given ID, or -1.
func (r *Roster) IndexOf(id string) int {
	for i, e := range r.entities {
		if e.ID == id {
			return i
		}
	}
	return -1
}

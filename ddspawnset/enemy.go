// This file contains the three enemy taxonomies a spawnset can be typed
// over (spec.md §3: "Spawnset<E> ... parametric over an enemy taxonomy with
// three concrete variants (V1, V2, V3)"), modeled in the same
// Enum-wrapping-named-struct idiom as rep/repcore/enums.go in the teacher
// repo.

package ddspawnset

import "github.com/ddstats/ddcore/ddmodel"

// EnemyTag is implemented by each of the three enemy taxonomies.
type EnemyTag interface {
	TagByID(id int32) EnemyTag
	ID() int32
	String() string
}

// enemyEnum is the shared representation backing all three taxonomies.
type enemyEnum struct {
	ddmodel.Enum
	id int32
}

func (e enemyEnum) ID() int32 { return e.id }

// EmptyID is the sentinel "no enemy" discriminant shared by all taxonomies.
const EmptyID int32 = -1

// V1 is the original enemy taxonomy.
type V1 struct{ enemyEnum }

var v1Tags = []V1{
	{enemyEnum{ddmodel.Enum{Name: "Squid1"}, 0}},
	{enemyEnum{ddmodel.Enum{Name: "Squid2"}, 1}},
	{enemyEnum{ddmodel.Enum{Name: "Centipede"}, 2}},
	{enemyEnum{ddmodel.Enum{Name: "Spider1"}, 3}},
	{enemyEnum{ddmodel.Enum{Name: "Leviathan"}, 4}},
	{enemyEnum{ddmodel.Enum{Name: "Gigapede"}, 5}},
	{enemyEnum{ddmodel.Enum{Name: "Empty"}, EmptyID}},
}

// TagByID returns the V1 tag for id, or the Empty tag if unknown.
func (V1) TagByID(id int32) EnemyTag {
	for _, t := range v1Tags {
		if t.id == id {
			return t
		}
	}
	return v1Tags[len(v1Tags)-1]
}

// V2 adds Squid3, Andras and Spider2 over V1.
type V2 struct{ enemyEnum }

var v2Tags = []V2{
	{enemyEnum{ddmodel.Enum{Name: "Squid1"}, 0}},
	{enemyEnum{ddmodel.Enum{Name: "Squid2"}, 1}},
	{enemyEnum{ddmodel.Enum{Name: "Centipede"}, 2}},
	{enemyEnum{ddmodel.Enum{Name: "Spider1"}, 3}},
	{enemyEnum{ddmodel.Enum{Name: "Leviathan"}, 4}},
	{enemyEnum{ddmodel.Enum{Name: "Gigapede"}, 5}},
	{enemyEnum{ddmodel.Enum{Name: "Squid3"}, 6}},
	{enemyEnum{ddmodel.Enum{Name: "Andras"}, 7}},
	{enemyEnum{ddmodel.Enum{Name: "Spider2"}, 8}},
	{enemyEnum{ddmodel.Enum{Name: "Empty"}, EmptyID}},
}

// TagByID returns the V2 tag for id, or the Empty tag if unknown.
func (V2) TagByID(id int32) EnemyTag {
	for _, t := range v2Tags {
		if t.id == id {
			return t
		}
	}
	return v2Tags[len(v2Tags)-1]
}

// V3 replaces Andras with Thorn and adds Ghostpede
// (spec.md §9: "The Thorn enemy appears in V3 only").
type V3 struct{ enemyEnum }

var v3Tags = []V3{
	{enemyEnum{ddmodel.Enum{Name: "Squid1"}, 0}},
	{enemyEnum{ddmodel.Enum{Name: "Squid2"}, 1}},
	{enemyEnum{ddmodel.Enum{Name: "Centipede"}, 2}},
	{enemyEnum{ddmodel.Enum{Name: "Spider1"}, 3}},
	{enemyEnum{ddmodel.Enum{Name: "Leviathan"}, 4}},
	{enemyEnum{ddmodel.Enum{Name: "Gigapede"}, 5}},
	{enemyEnum{ddmodel.Enum{Name: "Squid3"}, 6}},
	{enemyEnum{ddmodel.Enum{Name: "Thorn"}, 7}},
	{enemyEnum{ddmodel.Enum{Name: "Spider2"}, 8}},
	{enemyEnum{ddmodel.Enum{Name: "Ghostpede"}, 9}},
	{enemyEnum{ddmodel.Enum{Name: "Empty"}, EmptyID}},
}

// TagByID returns the V3 tag for id, or the Empty tag if unknown.
func (V3) TagByID(id int32) EnemyTag {
	for _, t := range v3Tags {
		if t.id == id {
			return t
		}
	}
	return v3Tags[len(v3Tags)-1]
}

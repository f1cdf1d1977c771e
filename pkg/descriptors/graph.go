package descriptors

import (
	"fmt"
	"sort"
)

// Graph is an adjacency view over a control interface's units, keyed by unit ID. Edges point
// from a unit to the units it sources data from.
type Graph struct {
	units map[uint8]Unit
	order []uint8
}

// Graph builds the adjacency view for the control interface.
func (ci *ControlInterface) Graph() *Graph {
	g := &Graph{units: make(map[uint8]Unit, len(ci.Units))}
	for _, u := range ci.Units {
		if _, ok := g.units[u.ID()]; !ok {
			g.order = append(g.order, u.ID())
		}
		g.units[u.ID()] = u
	}
	return g
}

func (g *Graph) Unit(id uint8) Unit {
	return g.units[id]
}

func (g *Graph) Sources(id uint8) []uint8 {
	if u, ok := g.units[id]; ok {
		return u.Sources()
	}
	return nil
}

// Sinks returns the IDs of the units that list id as a source, in ascending order.
func (g *Graph) Sinks(id uint8) []uint8 {
	var sinks []uint8
	for _, uid := range g.order {
		for _, src := range g.units[uid].Sources() {
			if src == id {
				sinks = append(sinks, uid)
				break
			}
		}
	}
	sort.Slice(sinks, func(i, j int) bool { return sinks[i] < sinks[j] })
	return sinks
}

// Path walks sources from the unit `from` back to `to`, returning the chain of IDs starting at
// from and ending at to. It returns nil if to is not upstream of from.
func (g *Graph) Path(from, to uint8) []uint8 {
	visited := make(map[uint8]bool)
	var walk func(id uint8) []uint8
	walk = func(id uint8) []uint8 {
		if id == to {
			return []uint8{id}
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		for _, src := range g.Sources(id) {
			if rest := walk(src); rest != nil {
				return append([]uint8{id}, rest...)
			}
		}
		return nil
	}
	if _, ok := g.units[from]; !ok {
		return nil
	}
	return walk(from)
}

// Topological orders the units so every unit follows all of its sources. Units that take part
// in a cycle are appended in declaration order.
func (g *Graph) Topological() []Unit {
	indegree := make(map[uint8]int, len(g.units))
	for _, id := range g.order {
		for _, src := range g.units[id].Sources() {
			if _, ok := g.units[src]; ok {
				indegree[id]++
			}
		}
	}
	var queue []uint8
	for _, id := range g.order {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	done := make(map[uint8]bool, len(g.units))
	var out []Unit
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		done[id] = true
		out = append(out, g.units[id])
		for _, sink := range g.Sinks(id) {
			indegree[sink]--
			if indegree[sink] == 0 {
				queue = append(queue, sink)
			}
		}
	}
	for _, id := range g.order {
		if !done[id] {
			out = append(out, g.units[id])
		}
	}
	return out
}

// validateSources checks that every source ID names a unit of the same control interface.
func validateSources(units []Unit) error {
	ids := make(map[uint8]bool, len(units))
	for _, u := range units {
		ids[u.ID()] = true
	}
	for _, u := range units {
		for _, src := range u.Sources() {
			if !ids[src] {
				return fmt.Errorf("%w: unit %d source %d", ErrDanglingSource, u.ID(), src)
			}
		}
	}
	return nil
}

package descriptors

import (
	"errors"
	"reflect"
	"testing"
)

// camera(1) -> processing(3) -> selector(4) <- input(5); selector(4) -> output(2)
func testGraph() *ControlInterface {
	return &ControlInterface{Units: []Unit{
		&OutputTerminal{TerminalID: 2, SourceID: 4},
		&CameraTerminal{InputTerminal: InputTerminal{TerminalID: 1, TerminalType: InputTerminalTypeCamera}},
		&SelectorUnit{UnitID: 4, SourceIDs: []uint8{3, 5}},
		&ProcessingUnit{UnitID: 3, SourceID: 1},
		&InputTerminal{TerminalID: 5},
	}}
}

func TestGraph_Edges(t *testing.T) {
	g := testGraph().Graph()
	if got := g.Sources(4); !reflect.DeepEqual(got, []uint8{3, 5}) {
		t.Errorf("Sources(4) = %v, want [3 5]", got)
	}
	if got := g.Sinks(1); !reflect.DeepEqual(got, []uint8{3}) {
		t.Errorf("Sinks(1) = %v, want [3]", got)
	}
	if got := g.Sinks(2); got != nil {
		t.Errorf("Sinks(2) = %v, want nil", got)
	}
	if g.Unit(9) != nil {
		t.Error("Unit(9) != nil")
	}
}

func TestGraph_Path(t *testing.T) {
	g := testGraph().Graph()
	if got := g.Path(2, 1); !reflect.DeepEqual(got, []uint8{2, 4, 3, 1}) {
		t.Errorf("Path(2, 1) = %v, want [2 4 3 1]", got)
	}
	if got := g.Path(1, 2); got != nil {
		t.Errorf("Path(1, 2) = %v, want nil", got)
	}
	if got := g.Path(2, 5); !reflect.DeepEqual(got, []uint8{2, 4, 5}) {
		t.Errorf("Path(2, 5) = %v, want [2 4 5]", got)
	}
}

func TestGraph_Topological(t *testing.T) {
	g := testGraph().Graph()
	order := g.Topological()
	if len(order) != 5 {
		t.Fatalf("len(Topological()) = %d, want 5", len(order))
	}
	pos := make(map[uint8]int)
	for i, u := range order {
		pos[u.ID()] = i
	}
	for _, u := range order {
		for _, src := range u.Sources() {
			if pos[src] > pos[u.ID()] {
				t.Errorf("unit %d ordered before its source %d", u.ID(), src)
			}
		}
	}
}

func TestGraph_TopologicalCycle(t *testing.T) {
	ci := &ControlInterface{Units: []Unit{
		&ProcessingUnit{UnitID: 1, SourceID: 2},
		&ProcessingUnit{UnitID: 2, SourceID: 1},
		&InputTerminal{TerminalID: 3},
	}}
	order := ci.Graph().Topological()
	var ids []uint8
	for _, u := range order {
		ids = append(ids, u.ID())
	}
	if !reflect.DeepEqual(ids, []uint8{3, 1, 2}) {
		t.Errorf("Topological() = %v, want [3 1 2]", ids)
	}
}

func TestValidateSources(t *testing.T) {
	if err := validateSources(testGraph().Units); err != nil {
		t.Errorf("validateSources = %v, want nil", err)
	}
	units := append(testGraph().Units, &ProcessingUnit{UnitID: 7, SourceID: 8})
	if err := validateSources(units); !errors.Is(err, ErrDanglingSource) {
		t.Errorf("validateSources = %v, want ErrDanglingSource", err)
	}
}

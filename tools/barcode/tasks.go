package barcode

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrCycle is returned when tasks depend on each other in a loop.
var ErrCycle = errors.New("task dependencies form a cycle")

// Task is one shell script run in Dir. It is a node of the pipeline graph.
type Task struct {
	id     int64
	Name   string
	Dir    string
	Script string
}

func (t *Task) ID() int64 { return t.id }

func (t *Task) String() string { return t.Name }

// Pipeline is a DAG of tasks; an edge u->v means v needs u first.
type Pipeline struct {
	g      *simple.DirectedGraph
	tasks  []*Task
	byName map[string]*Task
}

func NewPipeline() *Pipeline {
	return &Pipeline{g: simple.NewDirectedGraph(), byName: make(map[string]*Task)}
}

// Add creates a task. Names must be unique.
func (p *Pipeline) Add(name, dir, script string) (*Task, error) {
	if _, ok := p.byName[name]; ok {
		return nil, fmt.Errorf("duplicate task %q", name)
	}
	t := &Task{id: int64(len(p.tasks)), Name: name, Dir: dir, Script: script}
	p.g.AddNode(t)
	p.tasks = append(p.tasks, t)
	p.byName[name] = t
	return t, nil
}

// After makes t wait for every upstream task.
func (p *Pipeline) After(t *Task, upstream ...*Task) error {
	for _, u := range upstream {
		if u.ID() == t.ID() {
			return fmt.Errorf("%w: %s depends on itself", ErrCycle, t.Name)
		}
		p.g.SetEdge(p.g.NewEdge(u, t))
	}
	return nil
}

func (p *Pipeline) Task(name string) (*Task, bool) {
	t, ok := p.byName[name]
	return t, ok
}

// Tasks returns the tasks in creation order.
func (p *Pipeline) Tasks() []*Task {
	return append([]*Task(nil), p.tasks...)
}

func (p *Pipeline) Len() int { return len(p.tasks) }

// Upstream lists the tasks t waits for.
func (p *Pipeline) Upstream(t *Task) []*Task {
	return p.collect(p.g.To(t.ID()))
}

// Downstream lists the tasks waiting for t.
func (p *Pipeline) Downstream(t *Task) []*Task {
	return p.collect(p.g.From(t.ID()))
}

func (p *Pipeline) collect(it graph.Nodes) []*Task {
	var out []*Task
	for it.Next() {
		out = append(out, it.Node().(*Task))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Order returns every task after all of its upstream tasks; ties keep
// creation order.
func (p *Pipeline) Order() ([]*Task, error) {
	sorted, err := topo.SortStabilized(p.g, byID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}
	out := make([]*Task, len(sorted))
	for i, n := range sorted {
		out[i] = n.(*Task)
	}
	return out, nil
}

func byID(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
}

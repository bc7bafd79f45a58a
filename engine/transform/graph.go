package transform

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidHandle is returned when a Handle does not refer to a live node.
	ErrInvalidHandle = errors.New("transform: invalid handle")

	// ErrCycle is returned when a parent assignment would make a node its own ancestor.
	ErrCycle = errors.New("transform: parent assignment would create a cycle")
)

// Handle identifies a node in a Graph. It packs the slot index and the slot generation,
// so a handle to a removed node never aliases a node added later in the same slot.
type Handle uint64

// Nil is the zero Handle and never refers to a node.
const Nil Handle = 0

func makeHandle(index int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index+1))
}

func (h Handle) index() int  { return int(uint32(h)) - 1 }
func (h Handle) gen() uint32 { return uint32(h >> 32) }

type graphSlot struct {
	t      Transform
	parent Handle
	gen    uint32
	alive  bool
}

// Graph is a registry of transforms addressed by Handle. The graph owns its slots, not the
// transforms: removing a node detaches it and re-roots its children but leaves the
// Transform itself to its owner.
type Graph struct {
	mu    *sync.Mutex
	slots []graphSlot
	free  []int

	workers     int
	queueSize   int
	idleTimeout time.Duration
	pool        worker.DynamicWorkerPool
}

// NewGraph creates an empty Graph. World resolution is spread over a worker pool with
// one task per root subtree. The pool runs until Close.
//
// Parameters:
//   - options: functional options to configure the graph
//
// Returns:
//   - *Graph: the new graph
func NewGraph(options ...GraphBuilderOption) *Graph {
	g := &Graph{
		mu:          &sync.Mutex{},
		workers:     runtime.NumCPU(),
		queueSize:   256,
		idleTimeout: time.Second,
	}
	for _, opt := range options {
		opt(g)
	}
	if g.workers > 1 {
		g.pool = worker.NewDynamicWorkerPool(g.workers, g.queueSize, g.idleTimeout)
	}
	return g
}

// Close stops the worker pool. The graph stays usable afterwards and resolves on the
// calling goroutine. Safe to call more than once.
func (g *Graph) Close() {
	g.mu.Lock()
	pool := g.pool
	g.pool = nil
	g.mu.Unlock()

	if pool != nil {
		pool.Stop()
	}
}

// Add registers t as a new root node. A nil t registers a fresh identity transform.
//
// Parameters:
//   - t: the transform to register
//
// Returns:
//   - Handle: the handle of the new node
func (g *Graph) Add(t Transform) Handle {
	if t == nil {
		t = NewTransform()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	t.SetParent(nil)

	var idx int
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		idx = len(g.slots)
		g.slots = append(g.slots, graphSlot{})
	}
	s := &g.slots[idx]
	s.gen++
	s.t = t
	s.parent = Nil
	s.alive = true
	return makeHandle(idx, s.gen)
}

// Remove detaches the node identified by h from the graph. Its children become roots.
//
// Parameters:
//   - h: the node to remove
//
// Returns:
//   - Transform: the detached transform
//   - error: ErrInvalidHandle if h is not live
func (g *Graph) Remove(h Handle) (Transform, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.slotLocked(h)
	if err != nil {
		return nil, err
	}
	for i := range g.slots {
		c := &g.slots[i]
		if c.alive && c.parent == h {
			c.parent = Nil
			c.t.SetParent(nil)
		}
	}

	t := s.t
	t.SetParent(nil)
	s.t = nil
	s.parent = Nil
	s.alive = false
	g.free = append(g.free, h.index())
	return t, nil
}

// Transform returns the transform registered under h.
//
// Parameters:
//   - h: the node to look up
//
// Returns:
//   - Transform: the registered transform
//   - error: ErrInvalidHandle if h is not live
func (g *Graph) Transform(h Handle) (Transform, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.slotLocked(h)
	if err != nil {
		return nil, err
	}
	return s.t, nil
}

// SetParent makes parent the parent of child. Passing Nil as parent turns child into a root.
// Unlike Transform.SetParent this rejects assignments that would create a cycle.
//
// Parameters:
//   - child: the node to re-parent
//   - parent: the new parent, or Nil
//
// Returns:
//   - error: ErrInvalidHandle or ErrCycle on failure
func (g *Graph) SetParent(child, parent Handle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	cs, err := g.slotLocked(child)
	if err != nil {
		return err
	}
	if parent == Nil {
		cs.parent = Nil
		cs.t.SetParent(nil)
		return nil
	}

	ps, err := g.slotLocked(parent)
	if err != nil {
		return err
	}
	for a := parent; a != Nil; a = g.slots[a.index()].parent {
		if a == child {
			return ErrCycle
		}
	}

	cs.parent = parent
	cs.t.SetParent(ps.t)
	return nil
}

// Parent returns the parent handle of h, or Nil for a root.
//
// Parameters:
//   - h: the node to query
//
// Returns:
//   - Handle: the parent handle
//   - error: ErrInvalidHandle if h is not live
func (g *Graph) Parent(h Handle) (Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.slotLocked(h)
	if err != nil {
		return Nil, err
	}
	return s.parent, nil
}

// Children returns the direct children of h in slot order.
//
// Parameters:
//   - h: the node to query
//
// Returns:
//   - []Handle: the child handles
//   - error: ErrInvalidHandle if h is not live
func (g *Graph) Children(h Handle) ([]Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.slotLocked(h); err != nil {
		return nil, err
	}
	var out []Handle
	for i := range g.slots {
		s := &g.slots[i]
		if s.alive && s.parent == h {
			out = append(out, makeHandle(i, s.gen))
		}
	}
	return out, nil
}

// Roots returns every live node without a parent, in slot order.
//
// Returns:
//   - []Handle: the root handles
func (g *Graph) Roots() []Handle {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Handle
	for i := range g.slots {
		s := &g.slots[i]
		if s.alive && s.parent == Nil {
			out = append(out, makeHandle(i, s.gen))
		}
	}
	return out
}

// Len returns the number of live nodes.
//
// Returns:
//   - int: the node count
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.slots) - len(g.free)
}

// ResolveWorld computes the world matrix of every live node. Nodes are grouped by their
// root and each group is resolved as one task on the worker pool; groups never share a
// transform, so the lazy local caches are only touched by one task at a time.
//
// Returns:
//   - map[Handle]mgl32.Mat4: world matrices keyed by node handle
func (g *Graph) ResolveWorld() map[Handle]mgl32.Mat4 {
	type entry struct {
		h Handle
		t Transform
	}

	g.mu.Lock()
	groups := make(map[Handle][]entry)
	var order []Handle
	for i := range g.slots {
		s := &g.slots[i]
		if !s.alive {
			continue
		}
		h := makeHandle(i, s.gen)
		root := h
		for p := s.parent; p != Nil; p = g.slots[p.index()].parent {
			root = p
		}
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], entry{h: h, t: s.t})
	}
	g.mu.Unlock()

	results := make([][]mgl32.Mat4, len(order))
	resolve := func(i int) {
		group := groups[order[i]]
		out := make([]mgl32.Mat4, len(group))
		for j, e := range group {
			out[j] = e.t.World()
		}
		results[i] = out
	}

	g.mu.Lock()
	pool := g.pool
	g.mu.Unlock()

	if pool == nil || len(order) < 2 {
		for i := range order {
			resolve(i)
		}
	} else {
		var wg sync.WaitGroup
		for i := range order {
			wg.Add(1)
			idx := i
			pool.SubmitTask(worker.Task{
				ID: idx,
				Do: func() (any, error) {
					defer wg.Done()
					resolve(idx)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	world := make(map[Handle]mgl32.Mat4, len(g.slots))
	for i, root := range order {
		for j, e := range groups[root] {
			world[e.h] = results[i][j]
		}
	}
	return world
}

// slotLocked returns the live slot for h.
// Caller must hold the mutex.
func (g *Graph) slotLocked(h Handle) (*graphSlot, error) {
	idx := h.index()
	if h == Nil || idx < 0 || idx >= len(g.slots) {
		return nil, ErrInvalidHandle
	}
	s := &g.slots[idx]
	if !s.alive || s.gen != h.gen() {
		return nil, ErrInvalidHandle
	}
	return s, nil
}

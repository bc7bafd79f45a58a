package transform

import "time"

// GraphBuilderOption is a functional option applied to a Graph during construction via NewGraph.
type GraphBuilderOption func(*Graph)

// WithWorkers sets the maximum number of pool workers used by ResolveWorld.
// A value of 1 or less resolves every subtree on the calling goroutine.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - GraphBuilderOption: a function that sets the worker count
func WithWorkers(n int) GraphBuilderOption {
	return func(g *Graph) {
		g.workers = n
	}
}

// WithQueueSize sets the task queue capacity of the worker pool.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - GraphBuilderOption: a function that sets the queue size
func WithQueueSize(n int) GraphBuilderOption {
	return func(g *Graph) {
		g.queueSize = n
	}
}

// WithIdleTimeout sets the idle timeout handed to the worker pool. The current pool keeps its
// workers alive until Graph.Close regardless of this value.
//
// Parameters:
//   - d: the idle timeout
//
// Returns:
//   - GraphBuilderOption: a function that sets the idle timeout
func WithIdleTimeout(d time.Duration) GraphBuilderOption {
	return func(g *Graph) {
		g.idleTimeout = d
	}
}

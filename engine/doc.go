// Package engine runs mode matchers over chunk lists in cancellable,
// fixed-size batches. It offers one contract with two deployments:
// LocalEngine for in-process use and WorkerEngine for offloading to a
// dedicated, crash-isolated worker goroutine spoken to by message passing.
// Sessions never need to know which deployment they hold.
package engine

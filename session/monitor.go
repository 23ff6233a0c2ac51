package session

// Monitor provides hooks to observe a session's lifecycle.
// Implement this interface to relay progress events to a host UI.
type Monitor interface {
	Start(query string)
	Progress(countSoFar int)
	Completed(activeIndex, total int)
	Cancelled(discarded int)
	Failed(err error)
	Moved(activeIndex, total int)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)     {}
func (n *noopMonitor) Progress(_ int)     {}
func (n *noopMonitor) Completed(_, _ int) {}
func (n *noopMonitor) Cancelled(_ int)    {}
func (n *noopMonitor) Failed(_ error)     {}
func (n *noopMonitor) Moved(_, _ int)     {}

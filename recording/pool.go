package recording

import "sync"

// commandPool reuses command slices across evicted frames. A recorder
// running at steady state allocates nothing per frame once warm.
var commandPool = sync.Pool{
	New: func() any {
		s := make([]Command, 0, 64)
		return &s
	},
}

// getCommands retrieves an empty command slice from the pool.
func getCommands() []Command {
	s := commandPool.Get().(*[]Command)
	return (*s)[:0]
}

// putCommands returns a command slice to the pool for reuse.
func putCommands(s []Command) {
	if cap(s) == 0 {
		return
	}
	commandPool.Put(&s)
}

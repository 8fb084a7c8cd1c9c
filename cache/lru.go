package cache

// lruList is an intrusive doubly linked list ordered most to least
// recently used. It uses a sentinel root node so insert and remove
// need no nil checks.
type lruList[K any] struct {
	root lruNode[K]
	len  int
}

type lruNode[K any] struct {
	key        K
	prev, next *lruNode[K]
}

func (l *lruList[K]) init() {
	l.root.prev = &l.root
	l.root.next = &l.root
	l.len = 0
}

func (l *lruList[K]) pushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertAfter(n, &l.root)
	return n
}

func (l *lruList[K]) moveToFront(n *lruNode[K]) {
	if l.root.next == n {
		return
	}
	l.unlink(n)
	l.insertAfter(n, &l.root)
}

func (l *lruList[K]) remove(n *lruNode[K]) {
	l.unlink(n)
}

// removeOldest unlinks and returns the least recently used key.
func (l *lruList[K]) removeOldest() (K, bool) {
	if l.len == 0 {
		var zero K
		return zero, false
	}
	n := l.root.prev
	l.unlink(n)
	return n.key, true
}

func (l *lruList[K]) insertAfter(n, at *lruNode[K]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
	l.len++
}

func (l *lruList[K]) unlink(n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	l.len--
}

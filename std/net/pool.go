package net

import (
	"bufio"
	"container/list"
	gonet "net"
	"sync"

	"go.uber.org/zap"
)

// DefaultPoolSize is the number of open connections kept by default.
const DefaultPoolSize = 10

// Conn is a pooled transport connection. The reader is kept with the
// connection so bytes buffered past one response are not lost before the
// next request on the same socket.
type Conn struct {
	gonet.Conn
	r *bufio.Reader
}

func newConn(c gonet.Conn) *Conn {
	return &Conn{Conn: c, r: bufio.NewReader(c)}
}

type poolEntry struct {
	key  PoolKey
	conn *Conn
}

// ConnPool is a bounded least-recently-used cache of open connections.
type ConnPool struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List // front is most recently used
	entries map[PoolKey]*list.Element
	logger  *zap.Logger
}

// NewConnPool creates a pool holding at most maxSize connections.
// A non-positive maxSize selects DefaultPoolSize.
func NewConnPool(maxSize int, logger *zap.Logger) *ConnPool {
	if maxSize <= 0 {
		maxSize = DefaultPoolSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnPool{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[PoolKey]*list.Element),
		logger:  logger.Named("pool"),
	}
}

// Acquire returns the connection stored under key and marks it most recently used.
func (p *ConnPool) Acquire(key PoolKey) (*Conn, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.entries[key]
	if !ok {
		return nil, false
	}
	p.order.MoveToFront(el)
	return el.Value.(*poolEntry).conn, true
}

// Store inserts or replaces the connection for key and marks it most
// recently used. If the pool grows past its bound the least recently used
// entry is closed and dropped.
func (p *ConnPool) Store(key PoolKey, conn *Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if el, ok := p.entries[key]; ok {
		entry := el.Value.(*poolEntry)
		if entry.conn != conn {
			closeConn(entry.conn)
			entry.conn = conn
		}
		p.order.MoveToFront(el)
		return
	}

	p.entries[key] = p.order.PushFront(&poolEntry{key: key, conn: conn})
	if p.order.Len() > p.maxSize {
		oldest := p.order.Back()
		entry := oldest.Value.(*poolEntry)
		p.order.Remove(oldest)
		delete(p.entries, entry.key)
		closeConn(entry.conn)
		p.logger.Debug("evicted connection", zap.Stringer("key", entry.key))
	}
}

// Remove closes and drops the connection for key, if any.
func (p *ConnPool) Remove(key PoolKey) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.entries[key]
	if !ok {
		return
	}
	p.order.Remove(el)
	delete(p.entries, key)
	closeConn(el.Value.(*poolEntry).conn)
}

// Len returns the number of pooled connections.
func (p *ConnPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.order.Len()
}

// Keys returns the pooled keys from most to least recently used.
func (p *ConnPool) Keys() []PoolKey {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]PoolKey, 0, p.order.Len())
	for el := p.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*poolEntry).key)
	}
	return keys
}

// Close closes every pooled connection and empties the pool.
func (p *ConnPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for el := p.order.Front(); el != nil; el = el.Next() {
		closeConn(el.Value.(*poolEntry).conn)
	}
	p.order.Init()
	p.entries = make(map[PoolKey]*list.Element)
}

func closeConn(c *Conn) {
	if c != nil && c.Conn != nil {
		_ = c.Conn.Close()
	}
}

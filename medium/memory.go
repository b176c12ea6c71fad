package medium

import (
	"io"
	"sync"
)

// MemoryStats counts the calls a Memory medium has served.
type MemoryStats struct {
	Reads        int
	Writes       int
	Seeks        int
	BytesWritten int64
}

// Memory is an in-memory medium. Writing past the end zero-fills the gap.
// Thread-safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	data  []byte
	pos   int64
	stats MemoryStats
}

// NewMemory creates a memory medium holding a copy of data.
func NewMemory(data []byte) *Memory {
	copied := make([]byte, len(data))
	copy(copied, data)
	return &Memory{data: copied}
}

func (m *Memory) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Reads++
	if len(p) == 0 {
		return 0, nil
	}
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *Memory) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Writes++
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		if end <= int64(cap(m.data)) {
			m.data = m.data[:end]
		} else {
			grown := make([]byte, end, max(end, 2*int64(cap(m.data))))
			copy(grown, m.data)
			m.data = grown
		}
	}
	n := copy(m.data[m.pos:], p)
	m.pos += int64(n)
	m.stats.BytesWritten += int64(n)
	return n, nil
}

func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Seeks++
	target, err := seekTarget(m.pos, int64(len(m.data)), offset, whence)
	if err != nil {
		return 0, err
	}
	m.pos = target
	return target, nil
}

// Bytes returns a copy of the contents.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(m.data))
	copy(copied, m.data)
	return copied
}

// Len returns the current length.
func (m *Memory) Len() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.data))
}

// Stats returns the call counters.
func (m *Memory) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// ResetStats zeroes the call counters.
func (m *Memory) ResetStats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = MemoryStats{}
}

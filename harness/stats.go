package harness

import (
	"sync"
	"time"
)

// OpKind identifies the operation a worker performed.
type OpKind int

const (
	OpPut OpKind = iota
	OpGet
)

// String returns the operation name.
func (k OpKind) String() string {
	if k == OpPut {
		return "put"
	}
	return "get"
}

// Op is one logged cache operation.
type Op struct {
	Worker int
	Kind   OpKind
	Key    string
	Hit    bool // meaningful for OpGet only
	At     time.Time
}

// Stats aggregates a run's counters.
type Stats struct {
	Puts   uint64
	Gets   uint64
	Hits   uint64
	Misses uint64

	Elapsed time.Duration
}

// Ops returns the total number of operations performed.
func (s Stats) Ops() uint64 { return s.Puts + s.Gets }

// Throughput returns operations per second, or 0 for an empty run.
func (s Stats) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Ops()) / s.Elapsed.Seconds()
}

// HitRate returns Hits/Gets in [0,1], or 0 when no Gets were issued.
func (s Stats) HitRate() float64 {
	if s.Gets == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Gets)
}

// opLog is a bounded ring of the most recent operations. Recording under a
// mutex keeps entries ordered; the ring bounds memory on long runs.
type opLog struct {
	mu   sync.Mutex
	buf  []Op
	next int
	full bool
}

func newOpLog(n int) *opLog {
	if n <= 0 {
		return nil
	}
	return &opLog{buf: make([]Op, n)}
}

func (l *opLog) record(op Op) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.buf[l.next] = op
	l.next++
	if l.next == len(l.buf) {
		l.next = 0
		l.full = true
	}
	l.mu.Unlock()
}

// snapshot returns the retained operations, oldest first.
func (l *opLog) snapshot() []Op {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.full {
		out := make([]Op, l.next)
		copy(out, l.buf[:l.next])
		return out
	}
	out := make([]Op, 0, len(l.buf))
	out = append(out, l.buf[l.next:]...)
	out = append(out, l.buf[:l.next]...)
	return out
}

package testutil

import (
	"errors"
	"fmt"
	"io"
)

// OpKind is the kind of a scripted operation.
type OpKind int

const (
	OpSeek OpKind = iota
	OpWrite
	OpRead
)

func (k OpKind) String() string {
	switch k {
	case OpSeek:
		return "seek"
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	default:
		return "unknown"
	}
}

// Op is one scripted operation.
type Op struct {
	Kind   OpKind
	Offset int64  // OpSeek: absolute target
	Data   []byte // OpWrite: bytes to write
	Len    int    // OpRead: bytes to read
}

// ScriptConfig controls Script.
type ScriptConfig struct {
	// Ops is the number of seek+transfer pairs.
	Ops int
	// MaxOffset bounds seek targets.
	MaxOffset int64
	// MaxLen bounds the length of each transfer.
	MaxLen int
	// ReadPastEnd allows reads that start or end past the current length.
	// Without it reads stay within the bytes written so far.
	ReadPastEnd bool
	// InitialLen is the length of the medium before the script runs.
	InitialLen int64
}

// Script returns a random sequence of seek+write and seek+read pairs.
func (r *RNG) Script(cfg ScriptConfig) []Op {
	ops := make([]Op, 0, 2*cfg.Ops)
	length := cfg.InitialLen

	for range cfg.Ops {
		n := 1 + r.Intn(cfg.MaxLen)

		if r.Intn(2) == 0 && (cfg.ReadPastEnd || length > 0) {
			var off int64
			if cfg.ReadPastEnd {
				off = r.Int63n(cfg.MaxOffset)
			} else {
				off = r.Int63n(length)
				n = min(n, int(length-off))
			}
			ops = append(ops, Op{Kind: OpSeek, Offset: off}, Op{Kind: OpRead, Len: n})
			continue
		}

		off := r.Int63n(cfg.MaxOffset)
		ops = append(ops, Op{Kind: OpSeek, Offset: off}, Op{Kind: OpWrite, Data: r.Bytes(n)})
		length = max(length, off+int64(n))
	}
	return ops
}

// Apply replays ops against rws and returns the bytes each read produced.
// Reads that hit the end of rws return the bytes available up to it.
func Apply(rws io.ReadWriteSeeker, ops []Op) ([][]byte, error) {
	var reads [][]byte
	for i, op := range ops {
		switch op.Kind {
		case OpSeek:
			if _, err := rws.Seek(op.Offset, io.SeekStart); err != nil {
				return reads, fmt.Errorf("op %d: %s %d: %w", i, op.Kind, op.Offset, err)
			}
		case OpWrite:
			if _, err := rws.Write(op.Data); err != nil {
				return reads, fmt.Errorf("op %d: %s %d bytes: %w", i, op.Kind, len(op.Data), err)
			}
		case OpRead:
			buf := make([]byte, op.Len)
			n, err := io.ReadFull(rws, buf)
			if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				return reads, fmt.Errorf("op %d: %s %d bytes: %w", i, op.Kind, op.Len, err)
			}
			reads = append(reads, buf[:n])
		}
	}
	return reads, nil
}

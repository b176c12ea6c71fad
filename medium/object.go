package medium

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/buffile/internal/conv"
)

// ErrObjectTooLarge is returned when an offset lies beyond the last
// addressable part.
var ErrObjectTooLarge = errors.New("medium: object too large")

// Object is a random-access medium stored as fixed-size part objects.
//
// The bytes of part i live under "<name>/parts/<i>" and the logical length
// under "<name>/length". Parts that were never written are absent and read
// as zeros. A part object may be shorter than the part size when the data
// ends inside it.
//
// Object keeps the context it was opened with for all store requests,
// since io.Reader and io.Writer carry none.
type Object struct {
	ctx     context.Context
	store   ObjectStore
	name    string
	opts    objectOptions
	limiter *rate.Limiter

	mu          sync.Mutex
	present     *roaring.Bitmap
	length      int64
	lengthDirty bool
	pos         int64
	closed      bool
}

// OpenObject opens (or creates) the object medium called name in store.
func OpenObject(ctx context.Context, store ObjectStore, name string, optFns ...ObjectOption) (*Object, error) {
	opts := objectOptions{
		partSize:    DefaultPartSize,
		concurrency: DefaultFetchConcurrency,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	o := &Object{
		ctx:     ctx,
		store:   store,
		name:    name,
		opts:    opts,
		limiter: opts.limiter,
		present: roaring.New(),
	}

	keys, err := o.list(o.partPrefix())
	if err != nil {
		return nil, fmt.Errorf("list parts of %q: %w", name, err)
	}
	for _, key := range keys {
		idx, err := strconv.ParseUint(strings.TrimPrefix(key, o.partPrefix()), 10, 32)
		if err != nil {
			continue
		}
		o.present.Add(uint32(idx))
	}

	if err := o.loadLength(); err != nil {
		return nil, err
	}
	return o, nil
}

// RemoveObject deletes every part and the length record of name.
func RemoveObject(ctx context.Context, store ObjectStore, name string) error {
	keys, err := store.List(ctx, name+"/")
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %q: %w", key, err)
		}
	}
	return nil
}

func (o *Object) partPrefix() string { return o.name + "/parts/" }
func (o *Object) lengthKey() string  { return o.name + "/length" }

func (o *Object) partKey(idx uint32) string {
	return fmt.Sprintf("%s%010d", o.partPrefix(), idx)
}

func (o *Object) wait() error {
	return o.waitCtx(o.ctx)
}

func (o *Object) waitCtx(ctx context.Context) error {
	if o.limiter == nil {
		return nil
	}
	return o.limiter.Wait(ctx)
}

func (o *Object) get(key string) ([]byte, error) {
	return o.getCtx(o.ctx, key)
}

func (o *Object) getCtx(ctx context.Context, key string) ([]byte, error) {
	if err := o.waitCtx(ctx); err != nil {
		return nil, err
	}
	return o.store.Get(ctx, key)
}

func (o *Object) put(key string, data []byte) error {
	if err := o.wait(); err != nil {
		return err
	}
	return o.store.Put(o.ctx, key, data)
}

func (o *Object) list(prefix string) ([]string, error) {
	if err := o.wait(); err != nil {
		return nil, err
	}
	return o.store.List(o.ctx, prefix)
}

// loadLength reads the length record. Without one, the length is rebuilt
// from the highest present part.
func (o *Object) loadLength() error {
	raw, err := o.get(o.lengthKey())
	switch {
	case err == nil:
		if len(raw) != 8 {
			return fmt.Errorf("length record of %q: want 8 bytes, got %d", o.name, len(raw))
		}
		o.length = int64(binary.BigEndian.Uint64(raw))
		return nil
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("read length of %q: %w", o.name, err)
	}

	if o.present.IsEmpty() {
		return nil
	}

	last := o.present.Maximum()
	size, err := o.partLen(last)
	if err != nil {
		return fmt.Errorf("size last part of %q: %w", o.name, err)
	}
	o.length = int64(last)*int64(o.opts.partSize) + size
	o.lengthDirty = true
	return nil
}

func (o *Object) partLen(idx uint32) (int64, error) {
	if sizer, ok := o.store.(ObjectSizer); ok {
		if err := o.wait(); err != nil {
			return 0, err
		}
		return sizer.Size(o.ctx, o.partKey(idx))
	}
	data, err := o.get(o.partKey(idx))
	if err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// Len returns the logical length.
func (o *Object) Len() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.length
}

// Parts returns the number of part objects present.
func (o *Object) Parts() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.present.GetCardinality()
}

func (o *Object) partIndex(off int64) (uint32, error) {
	idx, err := conv.Int64ToUint32(off / int64(o.opts.partSize))
	if err != nil {
		return 0, ErrObjectTooLarge
	}
	return idx, nil
}

func (o *Object) Read(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if o.pos >= o.length {
		return 0, io.EOF
	}

	n := int(min(int64(len(p)), o.length-o.pos))
	if err := o.readAt(p[:n], o.pos); err != nil {
		return 0, err
	}
	o.pos += int64(n)
	return n, nil
}

// readAt fills p from off, fetching the overlapping parts concurrently.
func (o *Object) readAt(p []byte, off int64) error {
	partSize := int64(o.opts.partSize)

	g, gctx := errgroup.WithContext(o.ctx)
	g.SetLimit(o.opts.concurrency)

	for done := 0; done < len(p); {
		cur := off + int64(done)
		idx, err := o.partIndex(cur)
		if err != nil {
			_ = g.Wait()
			return err
		}
		inPart := int(cur % partSize)
		n := min(len(p)-done, int(partSize)-inPart)
		dst := p[done : done+n]
		done += n

		if !o.present.Contains(idx) {
			clear(dst)
			continue
		}

		g.Go(func() error {
			data, err := o.getCtx(gctx, o.partKey(idx))
			if err != nil {
				return fmt.Errorf("read part %d of %q: %w", idx, o.name, err)
			}
			copied := 0
			if inPart < len(data) {
				copied = copy(dst, data[inPart:])
			}
			clear(dst[copied:])
			return nil
		})
	}

	return g.Wait()
}

func (o *Object) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0, ErrClosed
	}
	if _, err := conv.Advance(uint64(o.pos), len(p)); err != nil {
		return 0, ErrObjectTooLarge
	}

	partSize := int64(o.opts.partSize)
	written := 0
	for written < len(p) {
		idx, err := o.partIndex(o.pos)
		if err != nil {
			return written, err
		}
		inPart := int(o.pos % partSize)
		n := min(len(p)-written, int(partSize)-inPart)

		if err := o.writePart(idx, inPart, p[written:written+n]); err != nil {
			return written, err
		}

		written += n
		o.pos += int64(n)
		if o.pos > o.length {
			o.length = o.pos
			o.lengthDirty = true
		}
	}
	return written, nil
}

// writePart overlays src at offset inPart of part idx.
func (o *Object) writePart(idx uint32, inPart int, src []byte) error {
	var data []byte
	if o.present.Contains(idx) {
		existing, err := o.get(o.partKey(idx))
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("read part %d of %q: %w", idx, o.name, err)
		}
		data = existing
	}

	if need := inPart + len(src); need > len(data) {
		grown := make([]byte, need)
		copy(grown, data)
		data = grown
	}
	copy(data[inPart:], src)

	if err := o.put(o.partKey(idx), data); err != nil {
		return fmt.Errorf("write part %d of %q: %w", idx, o.name, err)
	}
	o.present.Add(idx)
	return nil
}

func (o *Object) Seek(offset int64, whence int) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0, ErrClosed
	}
	target, err := seekTarget(o.pos, o.length, offset, whence)
	if err != nil {
		return 0, err
	}
	o.pos = target
	return target, nil
}

// Sync persists the length record if it changed.
func (o *Object) Sync() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}
	return o.syncLength()
}

func (o *Object) syncLength() error {
	if !o.lengthDirty {
		return nil
	}
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], uint64(o.length))
	if err := o.put(o.lengthKey(), raw[:]); err != nil {
		return fmt.Errorf("write length of %q: %w", o.name, err)
	}
	o.lengthDirty = false
	return nil
}

// Close persists the length record and releases the object.
func (o *Object) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}
	err := o.syncLength()
	o.closed = true
	return err
}

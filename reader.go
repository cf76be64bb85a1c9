package sparsecdf

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/sparsecdf/codec"
	"github.com/hupe1980/sparsecdf/container"
	"github.com/hupe1980/sparsecdf/tensor"
)

// Reader is a read session over one container handle. It owns the
// handle and releases it on Close.
//
// Data errors (malformed metadata, schema violations) leave the
// session usable; storage failures poison it.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	store   container.Store
	logger  *Logger
	metrics MetricsCollector
	closed  bool
}

// NewReader starts a read session on store. The root version attribute
// must equal Version; otherwise the handle is released and
// ErrVersionMismatch returned.
func NewReader(store container.Store, optFns ...Option) (*Reader, error) {
	if store == nil {
		return nil, fmt.Errorf("sparsecdf: nil store")
	}

	opts := applyOptions(optFns)

	got, ok := store.Root().Attr(codec.AttrVersion)
	if !ok {
		_ = store.Close()
		return nil, fmt.Errorf("%w: container has no %q attribute", ErrVersionMismatch, codec.AttrVersion)
	}

	if got != codec.Version {
		_ = store.Close()
		return nil, fmt.Errorf("%w: container version %q, reader handles %q", ErrVersionMismatch, got, codec.Version)
	}

	return &Reader{
		store:   store,
		logger:  opts.logger,
		metrics: opts.metrics,
	}, nil
}

// Read returns the unnamed primary object.
func (r *Reader) Read() (*tensor.Tensor, error) {
	return r.read("")
}

// ReadNamed returns the secondary object stored under name, or
// ErrNotFound.
func (r *Reader) ReadNamed(name string) (*tensor.Tensor, error) {
	return r.read(name)
}

func (r *Reader) read(name string) (*tensor.Tensor, error) {
	start := time.Now()
	t, err := r.readObject(name)
	r.metrics.RecordRead(time.Since(start), err)
	r.logger.LogRead(name, err)
	return t, err
}

func (r *Reader) readObject(name string) (*tensor.Tensor, error) {
	if r.closed {
		return nil, ErrClosedSession
	}

	g := r.store.Root()
	if name != "" {
		var err error
		g, err = r.store.Group(name)
		if err != nil {
			return nil, r.translate(err)
		}
	}

	t, err := codec.ReadObject(g)
	if err != nil {
		return nil, r.translate(err)
	}

	return t, nil
}

// translate maps storage-level closure onto the session taxonomy and
// poisons the session when the handle is gone.
func (r *Reader) translate(err error) error {
	if errors.Is(err, container.ErrClosed) {
		r.closed = true
	}
	return translateError(err)
}

// Names lists the secondary object names in sorted order.
func (r *Reader) Names() ([]string, error) {
	if r.closed {
		return nil, ErrClosedSession
	}

	names := r.store.Groups()
	sort.Strings(names)
	return names, nil
}

// Info describes a container's objects by their metadata records.
type Info struct {
	// Primary is the metadata record of the unnamed primary object.
	Primary *codec.Metadata

	// Secondary maps secondary object names to their metadata records.
	Secondary map[string]*codec.Metadata
}

// Info returns the metadata records of the primary and every secondary
// object. Only attributes are touched; no array data is materialized.
func (r *Reader) Info() (*Info, error) {
	if r.closed {
		return nil, ErrClosedSession
	}

	primary, err := codec.ReadMetadata(r.store.Root())
	if err != nil {
		return nil, fmt.Errorf("primary object: %w", err)
	}

	info := &Info{
		Primary:   primary,
		Secondary: make(map[string]*codec.Metadata),
	}

	for _, name := range r.store.Groups() {
		g, err := r.store.Group(name)
		if err != nil {
			return nil, r.translate(err)
		}

		meta, err := codec.ReadMetadata(g)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", name, err)
		}

		info.Secondary[name] = meta
	}

	return info, nil
}

// Close releases the handle. Closing an already closed Reader is a
// no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.store.Close()
	r.logger.LogClose("reader", err)
	return err
}

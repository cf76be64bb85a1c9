package sparsecdf

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/sparsecdf/codec"
	"github.com/hupe1980/sparsecdf/container"
	"github.com/hupe1980/sparsecdf/tensor"
)

// Writer is a write session over one container handle. It owns the
// handle: Close stamps the version attribute, flushes the container to
// its destination and releases the store.
//
// Validation failures leave the session usable and earlier writes
// intact. Storage failures poison the session; every later operation
// fails with ErrClosedSession. Arrays written before a failure are not
// rolled back.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	store   container.Store
	logger  *Logger
	metrics MetricsCollector
	save    func() error
	primary bool
	closed  bool
}

// NewWriter starts a write session on store. The store may already
// hold objects; a present root metadata record counts as the primary
// having been written.
func NewWriter(store container.Store, optFns ...Option) (*Writer, error) {
	if store == nil {
		return nil, fmt.Errorf("sparsecdf: nil store")
	}

	opts := applyOptions(optFns)

	w := &Writer{
		store:   store,
		logger:  opts.logger,
		metrics: opts.metrics,
	}

	if _, ok := store.Root().Attr(codec.AttrMetadata); ok {
		w.primary = true
	}

	return w, nil
}

// Write encodes t into the container: the unnamed primary by default,
// or a named secondary with WithName. The primary can be written at
// most once and secondary names must be unique; a repeat of either
// fails with ErrDuplicateName and leaves the first write intact.
func (w *Writer) Write(t *tensor.Tensor, optFns ...func(o *WriteOptions)) error {
	start := time.Now()
	err := w.write(t, optFns...)
	w.metrics.RecordWrite(time.Since(start), err)
	return err
}

func (w *Writer) write(t *tensor.Tensor, optFns ...func(o *WriteOptions)) error {
	if w.closed {
		return ErrClosedSession
	}

	var opts WriteOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Comment != "" {
		clone := *t
		clone.Comment = opts.Comment
		t = &clone
	}

	if opts.Validate {
		if err := t.ValidateStructure(); err != nil {
			w.logger.LogWrite(opts.Name, t.Format.String(), err)
			return err
		}
	}

	o, err := codec.Encode(t)
	if err != nil {
		w.logger.LogWrite(opts.Name, t.Format.String(), err)
		return err
	}

	g := w.store.Root()
	if opts.Name == "" {
		if w.primary {
			err := fmt.Errorf("%w: primary object already written", ErrDuplicateName)
			w.logger.LogWrite(opts.Name, t.Format.String(), err)
			return err
		}
	} else {
		g, err = w.store.CreateGroup(opts.Name)
		if err != nil {
			if errors.Is(err, container.ErrDuplicateName) {
				w.logger.LogWrite(opts.Name, t.Format.String(), err)
				return err
			}
			return w.fail(opts.Name, t.Format.String(), err)
		}
	}

	if err := codec.WriteEncoded(g, o); err != nil {
		return w.fail(opts.Name, t.Format.String(), err)
	}

	if opts.Name == "" {
		w.primary = true
	}

	w.logger.LogWrite(opts.Name, t.Format.String(), nil)
	return nil
}

// fail poisons the session after a storage error.
func (w *Writer) fail(name, format string, err error) error {
	w.closed = true
	_ = w.store.Close()

	err = translateError(err)
	w.logger.LogWrite(name, format, err)
	return err
}

// Close stamps the root version attribute if absent, flushes the
// container to its destination and releases the handle. Closing an
// already closed Writer is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	root := w.store.Root()
	if _, ok := root.Attr(codec.AttrVersion); !ok {
		if err := root.SetAttr(codec.AttrVersion, codec.Version); err != nil {
			_ = w.store.Close()
			err = translateError(err)
			w.logger.LogClose("writer", err)
			return err
		}
	}

	if w.save != nil {
		if err := w.save(); err != nil {
			_ = w.store.Close()
			w.logger.LogClose("writer", err)
			return err
		}
	}

	err := w.store.Close()
	w.logger.LogClose("writer", err)
	return err
}

// abort releases the handle without flushing. One-shot helpers use it
// so a failed write never publishes a container.
func (w *Writer) abort() {
	w.closed = true
	_ = w.store.Close()
}

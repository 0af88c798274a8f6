package ncconv

import (
	"context"
	"fmt"
	"sync"

	"github.com/robert-malhotra/go-ncconv/internal/ctxlog"
)

// Convert runs a complete serial conversion: schema translation, step-wise
// data copy, then attribute transfer. It owns the lifetime of both handles
// and closes them before returning.
//
// For a diskless conversion pass a destination that keeps its content in
// memory (such as a memgrid.Grid) and read it back after Convert returns.
func Convert(ctx context.Context, src Source, dst Destination, opts ...Option) (err error) {
	o := applyOptions(opts)
	ctx = ctxlog.WithLogger(ctx, o.logger)

	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing source: %w", cerr)
		}
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing destination: %w", cerr)
		}
	}()

	meta, err := ReadMetadata(src)
	if err != nil {
		return err
	}
	dst.SetFillOff()
	if err := DeclareSchema(dst, meta); err != nil {
		return err
	}
	if err := copyData(ctx, src, dst, meta, Serial(), o.progress); err != nil {
		return err
	}
	if err := WriteAttrs(dst, meta); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("conversion complete",
		"variables", len(meta.Vars), "steps", meta.Steps)
	return nil
}

// ConvertParallel runs a domain-decomposed conversion with size ranks.
// Every rank owns its own source handle (obtained from open) and shares
// the one collective-capable destination; the ranks execute the identical
// step-copy control flow, each writing only the slab it owns. The first
// rank failure is fatal to the whole group.
func ConvertParallel(ctx context.Context, open func() (Source, error), dst Destination, size int, opts ...Option) (err error) {
	if size < 2 {
		src, oerr := open()
		if oerr != nil {
			dst.Close()
			return fmt.Errorf("opening source: %w", oerr)
		}
		return Convert(ctx, src, dst, opts...)
	}

	o := applyOptions(opts)
	ctx = ctxlog.WithLogger(ctx, o.logger)

	// Opening the destination and the rank sources stands in for the
	// collective open: no rank starts copying before every handle exists.
	srcs := make([]Source, 0, size)
	defer func() {
		for _, s := range srcs {
			if cerr := s.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing source: %w", cerr)
			}
		}
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing destination: %w", cerr)
		}
	}()
	for rank := 0; rank < size; rank++ {
		s, oerr := open()
		if oerr != nil {
			return fmt.Errorf("opening source for rank %d: %w", rank, oerr)
		}
		srcs = append(srcs, s)
	}

	// Metadata and schema are rank-independent; declare once before any
	// rank writes.
	meta, err := ReadMetadata(srcs[0])
	if err != nil {
		return err
	}
	dst.SetFillOff()
	if err := DeclareSchema(dst, meta); err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for rank := 0; rank < size; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			exec := Exec{Rank: rank, Size: size}
			var progress ProgressFunc
			if rank == 0 {
				progress = o.progress
			}
			if cerr := copyData(ctx, srcs[rank], dst, meta, exec, progress); cerr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("rank %d: %w", rank, cerr)
				}
				mu.Unlock()
			}
		}(rank)
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	if err := WriteAttrs(dst, meta); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("conversion complete",
		"ranks", size, "variables", len(meta.Vars), "steps", meta.Steps)
	return nil
}

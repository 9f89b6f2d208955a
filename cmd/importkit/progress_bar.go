// cmd/importkit/progress_bar.go

package main

import (
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/gobeaver/importkit/progress"
)

// progressBar renders extraction progress on a terminal. The bar is added
// on the first update with a non-zero total.
type progressBar struct {
	name string
	p    *mpb.Progress
	bar  *mpb.Bar
}

func newProgressBar(w io.Writer, name string) *progressBar {
	return &progressBar{
		name: truncateLeft(name, 30),
		p: mpb.New(
			mpb.WithOutput(w),
			mpb.WithWidth(60),
			mpb.WithRefreshRate(100*time.Millisecond),
		),
	}
}

// Sink returns the progress.Func driving the bar.
func (b *progressBar) Sink() progress.Func {
	return func(processed, total int) error {
		if total <= 0 {
			return nil
		}
		if b.bar == nil {
			b.bar = b.p.AddBar(int64(total),
				mpb.PrependDecorators(
					decor.Name(b.name, decor.WC{C: decor.DindentRight | decor.DextraSpace, W: 32}),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Percentage(decor.WC{W: 5}),
				),
			)
		}
		b.bar.SetCurrent(int64(processed))
		return nil
	}
}

// Wait flushes the bar. A bar left incomplete by a failed run is aborted
// so Wait does not block.
func (b *progressBar) Wait() {
	if b.bar != nil && !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.p.Wait()
}

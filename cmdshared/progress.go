package cmdshared

import (
	"fmt"
	"io"
	"os"

	"github.com/packwiz/launchwiz/core"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// ProgressRenderer draws installer progress events on a terminal: one bar per counted phase,
// and a plain line for every other status
type ProgressRenderer struct {
	out      io.Writer
	progress *mpb.Progress
	bar      *mpb.Bar
	current  int
}

func NewProgressRenderer(out io.Writer) *ProgressRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &ProgressRenderer{out: out}
}

// Handle consumes a single event; it can be passed directly as a core.ProgressFunc
func (r *ProgressRenderer) Handle(e core.ProgressEvent) {
	if e.Status != "" {
		r.endPhase()
		if e.Max > 0 {
			r.startPhase(e.Status, e.Max)
		} else {
			_, _ = fmt.Fprintln(r.out, e.Status)
		}
	}
	if r.bar != nil && e.Progress > r.current {
		r.bar.IncrBy(e.Progress - r.current)
		r.current = e.Progress
	}
}

// Finish stops any bar still being drawn
func (r *ProgressRenderer) Finish() {
	r.endPhase()
}

func (r *ProgressRenderer) startPhase(name string, total int) {
	r.progress = mpb.New(mpb.WithOutput(r.out), mpb.WithWidth(40))
	r.bar = r.progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name, decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	r.current = 0
}

func (r *ProgressRenderer) endPhase() {
	if r.progress == nil {
		return
	}
	if !r.bar.Completed() {
		// Keep the partial bar on screen
		r.bar.Abort(false)
	}
	r.progress.Wait()
	r.progress = nil
	r.bar = nil
	r.current = 0
}

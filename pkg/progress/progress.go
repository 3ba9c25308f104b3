// Package progress renders a progress bar over sweep configurations.
package progress

import (
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/minio/pkg/console"
)

// Bar wraps the underlying progress bar.
type Bar struct {
	*pb.ProgressBar
}

// NewBar creates a bar counting completed benchmark passes.
func NewBar(total int64) *Bar {
	console.SetColor("Bar", color.New(color.FgGreen, color.Bold))

	bar := pb.New64(total)
	bar.SetRefreshRate(time.Millisecond * 125)
	bar.SetTemplateString(`{{counters . }} {{bar . }} {{percent . }}`)
	bar.Start()

	return &Bar{ProgressBar: bar}
}

// SetCaption sets the caption shown next to the bar.
func (b *Bar) SetCaption(caption string) *Bar {
	b.ProgressBar.Set("prefix", caption+" ")
	return b
}

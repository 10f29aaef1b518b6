package download

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// Progress receives transfer feedback for one file at a time
type Progress interface {
	// Start begins a transfer. total is -1 when the size is unknown
	Start(name string, total int64)
	// Add reports n more bytes written
	Add(n int)
	// Finish ends the current transfer
	Finish()
}

// NopProgress discards all feedback
type NopProgress struct{}

func (NopProgress) Start(string, int64) {}
func (NopProgress) Add(int)             {}
func (NopProgress) Finish()             {}

// unknownStep is how often (in bytes) the line is redrawn when the total size is unknown
const unknownStep = 256 * 1024

// BarProgress redraws a single status line ("name  1.2 MiB / 3.4 MiB  35%") on w, typically stderr
type BarProgress struct {
	mu        sync.Mutex
	w         io.Writer
	name      string
	total     int64
	written   int64
	lastDrawn int64 // percent when total is known, bytes otherwise
}

// NewBarProgress returns a BarProgress writing to w
func NewBarProgress(w io.Writer) *BarProgress {
	return &BarProgress{w: w}
}

// Start implements Progress
func (p *BarProgress) Start(name string, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name, p.total, p.written, p.lastDrawn = name, total, 0, -1
	p.draw()
}

// Add implements Progress
func (p *BarProgress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written += int64(n)
	if p.total > 0 {
		if pct := p.percent(); pct != p.lastDrawn {
			p.draw()
		}
		return
	}
	if p.written-p.lastDrawn >= unknownStep {
		p.draw()
	}
}

// Finish implements Progress
func (p *BarProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw()
	fmt.Fprintln(p.w)
}

// percent is capped at 100 because Content-Length may understate the body
func (p *BarProgress) percent() int64 {
	return min(p.written*100/p.total, 100)
}

func (p *BarProgress) draw() {
	if p.total > 0 {
		p.lastDrawn = p.percent()
		fmt.Fprintf(p.w, "\r%s  %s / %s  %3d%%", p.name,
			humanize.IBytes(uint64(p.written)), humanize.IBytes(uint64(p.total)), p.lastDrawn)
		return
	}
	p.lastDrawn = p.written
	fmt.Fprintf(p.w, "\r%s  %s", p.name, humanize.IBytes(uint64(p.written)))
}

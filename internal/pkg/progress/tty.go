package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const barWidth = 30

// TTYProgress перерисовывает одну строку терминала:
//
//	[===============>              ] 50% 20.0 MiB/40.0 MiB | ETA: 3s | base.pak
type TTYProgress struct {
	mu      sync.Mutex
	opts    Options
	started time.Time
	drawn   time.Time
	current int64
	message string
}

// NewTTYProgress создаёт TTYProgress.
func NewTTYProgress(opts Options) *TTYProgress {
	return &TTYProgress{opts: opts}
}

func (p *TTYProgress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started, p.drawn = time.Now(), time.Time{}
	p.current, p.message = 0, message
}

// Update перерисовывает строку не чаще ThrottleInterval.
func (p *TTYProgress) Update(current int64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
	if message != "" {
		p.message = message
	}
	if p.opts.ThrottleInterval > 0 && time.Since(p.drawn) < p.opts.ThrottleInterval {
		return
	}
	p.drawn = time.Now()
	p.draw()
}

func (p *TTYProgress) SetTotal(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Total = total
}

// Finish дорисовывает 100% и завершает строку.
func (p *TTYProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.opts.Total
	p.draw()
	if p.opts.Output != nil {
		_, _ = fmt.Fprintln(p.opts.Output) //nolint:errcheck // терминал
	}
}

func (p *TTYProgress) draw() {
	if p.opts.Output == nil {
		return
	}
	percent := percentOf(p.current, p.opts.Total)

	var line strings.Builder
	fmt.Fprintf(&line, "\r%s %d%%", renderBar(percent), percent)
	if p.opts.Total > 0 {
		fmt.Fprintf(&line, " %s/%s", FormatBytes(p.current), FormatBytes(p.opts.Total))
	}
	if p.opts.ShowETA && p.opts.Total > 0 && p.current > 0 {
		line.WriteString(" | ETA: " + p.eta())
	}
	if p.message != "" {
		line.WriteString(" | " + p.message)
	}
	line.WriteString("\033[K") // стереть остаток предыдущей строки

	_, _ = fmt.Fprint(p.opts.Output, line.String()) //nolint:errcheck // терминал
}

func (p *TTYProgress) eta() string {
	left := remaining(time.Since(p.started), p.current, p.opts.Total).Round(time.Second)
	if left < time.Second {
		return "<1s"
	}
	return FormatDuration(left)
}

// renderBar: пустой bar при 0%, без стрелки при 100%.
func renderBar(percent int) string {
	filled := min(max(percent*barWidth/100, 0), barWidth)
	switch filled {
	case 0:
		return "[" + strings.Repeat(" ", barWidth) + "]"
	case barWidth:
		return "[" + strings.Repeat("=", barWidth) + "]"
	}
	return "[" + strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barWidth-filled-1) + "]"
}

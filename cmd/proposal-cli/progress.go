package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

const heartbeatInterval = 10 * time.Second

var heartbeatMessages = []string{
	"Still working...",
	"The model is taking a while, hang on...",
	"Working on your proposal...",
	"Almost there...",
}

// progressPrinter reports completed stages and prints a heartbeat line while
// a stage is still running.
type progressPrinter struct {
	out      io.Writer
	interval time.Duration

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
	index  int
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out:      out,
		interval: heartbeatInterval,
		done:     make(chan struct{}),
	}
}

// Start begins printing heartbeat lines until Stop or ctx is done
func (p *progressPrinter) Start(ctx context.Context) {
	p.ticker = time.NewTicker(p.interval)

	go func() {
		for {
			select {
			case <-p.ticker.C:
				p.mu.Lock()
				fmt.Fprintln(p.out, "  "+heartbeatMessages[p.index%len(heartbeatMessages)])
				p.index++
				p.mu.Unlock()
			case <-p.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stage is a proposal.ProgressFunc
func (p *progressPrinter) Stage(completed, total int, stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "[%d/%d] %s\n", completed, total, stageMessages[stage])
	p.index = 0
	if p.ticker != nil {
		p.ticker.Reset(p.interval)
	}
}

// Stop stops the heartbeat
func (p *progressPrinter) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
	close(p.done)
}

package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/proposal-backend/internal/usecase/proposal"
	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressPrinter(t *testing.T) {
	out := &syncBuffer{}
	p := newProgressPrinter(out)
	p.interval = 10 * time.Millisecond

	p.Start(context.Background())
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), heartbeatMessages[0])
	}, time.Second, 5*time.Millisecond)

	p.Stage(1, 3, proposal.StageUnifiedAnalysis)
	p.Stop()

	assert.Contains(t, out.String(), "[1/3] Analyzed requirements")
}

package progress

import (
	"fmt"
	"sync"
	"time"
)

// Indicator provides progress tracking for long solver runs
type Indicator struct {
	enabled bool
	mu      sync.Mutex
	phase   string
	start   time.Time
}

// NewIndicator creates a new progress indicator
func NewIndicator(enabled bool) *Indicator {
	return &Indicator{
		enabled: enabled,
		start:   time.Now(),
	}
}

// Phase sets the current phase
func (p *Indicator) Phase(name string) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = name
	fmt.Printf("\n%s\n", name)
}

// Step sets the current step within a phase
func (p *Indicator) Step(name string) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Printf("  ├─ %s\n", name)
}

// Expanded reports the running expansion count during search
func (p *Indicator) Expanded(n int64) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Printf("  │  %s nodes expanded\n", formatNumber(n))
}

// Success marks a step as successful
func (p *Indicator) Success(name string) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Printf("  └─ ✓ %s\n", name)
}

// Error shows an error
func (p *Indicator) Error(name string, err error) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Printf("  └─ ✗ %s: %v\n", name, err)
}

// Done prints the total elapsed time
func (p *Indicator) Done() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Printf("\nFinished in %s\n", time.Since(p.start).Round(time.Millisecond))
}

func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1_000_000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
}

package metrics

import (
	"sync/atomic"
	"time"
)

// Collector holds process-wide request and domain counters.
type Collector struct {
	totalRequests    atomic.Uint64
	clientErrors     atomic.Uint64
	serverErrors     atomic.Uint64
	rateLimited      atomic.Uint64
	totalDurationMs  atomic.Uint64
	payrollsComputed atomic.Uint64
	payslipsRendered atomic.Uint64
	dreRendered      atomic.Uint64
}

type Snapshot struct {
	RequestsTotal    uint64  `json:"requestsTotal"`
	ClientErrors     uint64  `json:"clientErrorsTotal"`
	ServerErrors     uint64  `json:"serverErrorsTotal"`
	RateLimited      uint64  `json:"rateLimitedTotal"`
	AvgDurationMs    float64 `json:"avgDurationMs"`
	TotalDurationMs  uint64  `json:"totalDurationMs"`
	PayrollsComputed uint64  `json:"payrollsComputed"`
	PayslipsRendered uint64  `json:"payslipsRendered"`
	DRERendered      uint64  `json:"dreRendered"`
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	switch {
	case status == 429:
		c.rateLimited.Add(1)
		c.clientErrors.Add(1)
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) PayrollComputed() {
	if c != nil {
		c.payrollsComputed.Add(1)
	}
}

func (c *Collector) PayslipRendered() {
	if c != nil {
		c.payslipsRendered.Add(1)
	}
}

func (c *Collector) DRERendered() {
	if c != nil {
		c.dreRendered.Add(1)
	}
}

func (c *Collector) Snapshot() Snapshot {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return Snapshot{
		RequestsTotal:    total,
		ClientErrors:     c.clientErrors.Load(),
		ServerErrors:     c.serverErrors.Load(),
		RateLimited:      c.rateLimited.Load(),
		AvgDurationMs:    avg,
		TotalDurationMs:  totalMs,
		PayrollsComputed: c.payrollsComputed.Load(),
		PayslipsRendered: c.payslipsRendered.Load(),
		DRERendered:      c.dreRendered.Load(),
	}
}

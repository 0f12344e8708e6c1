package search

import "time"

// Stats is read-only telemetry for one Search call.
type Stats struct {
	StartTime           time.Time
	Elapsed             time.Duration
	Nodes               int64
	TTProbes            int64
	TTHits              int64
	Cutoffs             int64
	InvariantViolations int64
	Depth               int
	BestScore           int
	Aborted             bool
}

// HitRate returns the share of table probes that were usable.
func (s Stats) HitRate() float64 {
	if s.TTProbes == 0 {
		return 0
	}
	return float64(s.TTHits) / float64(s.TTProbes)
}

type metricsCollector struct {
	start      time.Time
	nodes      int64
	probes     int64
	hits       int64
	cutoffs    int64
	violations int64
	aborted    bool
}

func (m *metricsCollector) Start(now time.Time) {
	*m = metricsCollector{start: now}
}

func (m *metricsCollector) AddNode()      { m.nodes++ }
func (m *metricsCollector) AddProbe()     { m.probes++ }
func (m *metricsCollector) AddHit()       { m.hits++ }
func (m *metricsCollector) AddCutoff()    { m.cutoffs++ }
func (m *metricsCollector) AddViolation() { m.violations++ }
func (m *metricsCollector) Aborted()      { m.aborted = true }

func (m *metricsCollector) Complete(now time.Time, depth, score int) Stats {
	return Stats{
		StartTime:           m.start,
		Elapsed:             now.Sub(m.start),
		Nodes:               m.nodes,
		TTProbes:            m.probes,
		TTHits:              m.hits,
		Cutoffs:             m.cutoffs,
		InvariantViolations: m.violations,
		Depth:               depth,
		BestScore:           score,
		Aborted:             m.aborted,
	}
}

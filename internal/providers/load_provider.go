package providers

import (
	"context"
	"sync"

	"github.com/prometheus/procfs"
	"go.uber.org/atomic"
)

// LoadSamplerInterface is the external load data source consulted before
// a send is counted. Sample never blocks the send pipeline on failure:
// it degrades to 0.
type LoadSamplerInterface interface {
	Sample(ctx context.Context) (float64, error)
	Last() float64
}

// CPULoadSampler derives a busy percentage from the delta of /proc/stat
// CPU ticks between two consecutive samples. The first sample of a
// process (no previous tick state) reports 0.
type CPULoadSampler struct {
	mu        sync.Mutex
	fs        procfs.FS
	available bool
	prevBusy  float64
	prevTotal float64
	hasPrev   bool
	last      *atomic.Float64
	logger    Logger
}

func NewLoadSampler(logger Logger) LoadSamplerInterface {
	s := &CPULoadSampler{
		last:   atomic.NewFloat64(0),
		logger: logger,
	}
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		logger.Warnf(TypeApp, "procfs unavailable, load sampling disabled: %s", err)
		return s
	}
	s.fs = fs
	s.available = true
	return s
}

func (s *CPULoadSampler) Sample(_ context.Context) (float64, error) {
	if !s.available {
		return 0, nil
	}

	stat, err := s.fs.Stat()
	if err != nil {
		s.logger.Debugf(TypeApp, "load sample failed: %s", err)
		return 0, nil
	}

	cpu := stat.CPUTotal
	idle := cpu.Idle + cpu.Iowait
	busy := cpu.User + cpu.Nice + cpu.System + cpu.IRQ + cpu.SoftIRQ + cpu.Steal
	total := busy + idle

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasPrev {
		s.prevBusy, s.prevTotal, s.hasPrev = busy, total, true
		return 0, nil
	}

	dBusy := busy - s.prevBusy
	dTotal := total - s.prevTotal
	s.prevBusy, s.prevTotal = busy, total

	if dTotal <= 0 {
		return s.last.Load(), nil
	}

	pct := dBusy / dTotal * 100
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	s.last.Store(pct)
	return pct, nil
}

// Last returns the most recently computed percentage without sampling.
func (s *CPULoadSampler) Last() float64 {
	return s.last.Load()
}

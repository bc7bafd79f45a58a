package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-core/common"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS         float64
	Frame       uint64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	NumGC       uint32
	LastPause   time.Duration
	MaxPause    time.Duration
}

// Profiler tracks frame rate and memory statistics and logs them through the engine logger
// once per interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now func() time.Time
}

// NewProfiler creates a Profiler that reports every interval. Non-positive intervals fall back
// to one second.
//
// Parameters:
//   - interval: time between reports
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick records one frame. When the interval has elapsed it samples the runtime, logs a report
// at Info level, and starts a new window.
//
// Parameters:
//   - frame: the renderer frame counter, included in the report
//
// Returns:
//   - bool: true if a report was produced this tick
func (p *Profiler) Tick(frame uint64) bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		Frame:       frame,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		NumGC:       p.memStats.NumGC,
	}
	if s.NumGC > 0 {
		// PauseNs is a ring of the last 256 pauses.
		s.LastPause = time.Duration(p.memStats.PauseNs[(s.NumGC-1)%256])
		start := p.lastGCCount
		if s.NumGC-start > 256 {
			start = s.NumGC - 256
		}
		for i := start; i < s.NumGC; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	common.Logger().Info("profiler",
		"fps", s.FPS,
		"frame", s.Frame,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.NumGC,
		"gc_last_pause", s.LastPause,
		"gc_max_pause", s.MaxPause,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report, or the zero Stats if none has been produced.
//
// Returns:
//   - Stats: the last report
func (p *Profiler) Last() Stats {
	return p.last
}

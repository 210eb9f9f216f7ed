package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/config"
)

// StartProfiling starts the pprof server and, when configured, a CPU profile.
// The returned stop function ends the CPU profile and writes the heap profile.
func StartProfiling(cfg config.ProfilingConfig, log logrus.FieldLogger) (stop func()) {
	stop = func() {}
	if !cfg.Enabled {
		return stop
	}
	log = log.WithField("component", "profiling")

	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)

	if cfg.Port != "" {
		go func() {
			log.WithField("port", cfg.Port).Info("starting pprof server")
			log.Infof("CPU profile: curl http://localhost:%s/debug/pprof/profile?seconds=30 > cpu.prof", cfg.Port)
			log.Infof("Heap profile: curl http://localhost:%s/debug/pprof/heap > mem.prof", cfg.Port)
			if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("pprof server failed")
			}
		}()
	}

	var cpu *os.File
	if cfg.CPUProfilePath != "" {
		f, err := os.Create(cfg.CPUProfilePath)
		if err != nil {
			log.WithError(err).Error("failed to create CPU profile")
		} else if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Error("failed to start CPU profile")
			_ = f.Close()
		} else {
			cpu = f
		}
	}

	return func() {
		if cpu != nil {
			pprof.StopCPUProfile()
			_ = cpu.Close()
			log.WithField("path", cfg.CPUProfilePath).Info("CPU profile written")
		}
		if cfg.MemProfilePath != "" {
			if err := writeHeapProfile(cfg.MemProfilePath); err != nil {
				log.WithError(err).Error("failed to write heap profile")
				return
			}
			log.WithField("path", cfg.MemProfilePath).Info("heap profile written")
		}
	}
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}

// Metrics holds running averages of host work.
type Metrics struct {
	mu deadlock.Mutex

	Ticks           int64
	Intents         int64
	Snapshots       int64
	AvgTickTime     time.Duration
	AvgIntentTime   time.Duration
	AvgSnapshotTime time.Duration
	PeakGoroutines  int
	PeakMemoryUsage uint64
	StartTime       time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

func runningAverage(avg time.Duration, n int64, d time.Duration) time.Duration {
	return (avg*time.Duration(n-1) + d) / time.Duration(n)
}

// TrackTick records one tick, visibility pass included.
func (m *Metrics) TrackTick(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ticks++
	m.AvgTickTime = runningAverage(m.AvgTickTime, m.Ticks, d)
}

func (m *Metrics) TrackIntent(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Intents++
	m.AvgIntentTime = runningAverage(m.AvgIntentTime, m.Intents, d)
}

func (m *Metrics) TrackSnapshot(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshots++
	m.AvgSnapshotTime = runningAverage(m.AvgSnapshotTime, m.Snapshots, d)
}

func (m *Metrics) UpdateSystemMetrics() {
	goroutines := runtime.NumGoroutine()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m.mu.Lock()
	defer m.mu.Unlock()
	if goroutines > m.PeakGoroutines {
		m.PeakGoroutines = goroutines
	}
	if ms.Alloc > m.PeakMemoryUsage {
		m.PeakMemoryUsage = ms.Alloc
	}
}

func (m *Metrics) LogMetrics(log logrus.FieldLogger) {
	m.mu.Lock()
	fields := logrus.Fields{
		"uptime":          time.Since(m.StartTime).Round(time.Second),
		"ticks":           m.Ticks,
		"intents":         m.Intents,
		"snapshots":       m.Snapshots,
		"avg_tick":        m.AvgTickTime,
		"avg_intent":      m.AvgIntentTime,
		"avg_snapshot":    m.AvgSnapshotTime,
		"peak_goroutines": m.PeakGoroutines,
		"peak_alloc":      m.PeakMemoryUsage,
	}
	m.mu.Unlock()
	log.WithFields(fields).Info("performance metrics")
}

// StartMetricsReporting logs metrics every interval until ctx is cancelled.
func StartMetricsReporting(ctx context.Context, metrics *Metrics, interval time.Duration, log logrus.FieldLogger) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateSystemMetrics()
				metrics.LogMetrics(log)
			}
		}
	}()
}

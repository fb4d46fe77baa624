// benchmark.go
// Measures wall time and memory of one ontbc command

package benchmark

import (
	"os"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const mb = 1024.0 * 1024.0

// Report is what Run measured.
type Report struct {
	Label      string
	Elapsed    time.Duration
	TotalAlloc float64 // MB
	PeakHeap   float64 // MB
	GCCycles   uint32
}

// Run wraps f, logs its runtime and memory usage and returns f's error.
func Run(label string, f func() error) (Report, error) {
	log.Infof("[Benchmark] Running: %s", label)
	if host, err := os.Hostname(); err == nil {
		log.Debugf("[Benchmark] Hostname: %s", host)
	}
	log.Debugf("[Benchmark] Go Version: %s, OS/Arch: %s/%s, CPU Cores: %d",
		runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	runtime.GC()
	var memStart, memEnd runtime.MemStats
	runtime.ReadMemStats(&memStart)
	start := time.Now()

	err := f()

	r := Report{Label: label, Elapsed: time.Since(start)}
	runtime.ReadMemStats(&memEnd)
	r.TotalAlloc = float64(memEnd.TotalAlloc-memStart.TotalAlloc) / mb
	r.PeakHeap = float64(memEnd.HeapAlloc) / mb
	r.GCCycles = memEnd.NumGC - memStart.NumGC

	log.WithFields(log.Fields{
		"elapsed":  r.Elapsed.Round(time.Millisecond),
		"alloc_mb": r.TotalAlloc,
		"heap_mb":  r.PeakHeap,
		"gc":       r.GCCycles,
	}).Infof("[Benchmark] %s finished", label)
	return r, err
}

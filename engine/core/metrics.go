package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// MetricsState keeps a rolling average over the last AVG_COUNT scene packs
// plus running totals.
type MetricsState struct {
	PackAVGCounter uint8
	MStimes        [AVG_COUNT]float64
	MSavg          float64
	Packs          int64
	Objects        int64
	Vertices       int64
	Faces          int64
	Failures       int64
}

var metricsMutex sync.Mutex
var metricsState = &MetricsState{}

func MetricsReset() {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	metricsState = &MetricsState{}
}

// MetricsUpdate records one finished pack.
func MetricsUpdate(elapsed time.Duration, objects, vertices, faces, failures int) {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	ms := float64(elapsed) / float64(time.Millisecond)
	metricsState.MStimes[metricsState.PackAVGCounter] = ms
	metricsState.PackAVGCounter++
	metricsState.PackAVGCounter %= AVG_COUNT

	metricsState.Packs++
	n := metricsState.Packs
	if n > int64(AVG_COUNT) {
		n = int64(AVG_COUNT)
	}
	sum := 0.0
	for i := int64(0); i < n; i++ {
		sum += metricsState.MStimes[i]
	}
	metricsState.MSavg = sum / float64(n)

	metricsState.Objects += int64(objects)
	metricsState.Vertices += int64(vertices)
	metricsState.Faces += int64(faces)
	metricsState.Failures += int64(failures)
}

// MetricsSnapshot returns a copy of the current counters.
func MetricsSnapshot() MetricsState {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	return *metricsState
}

func MetricsPackTime() float64 {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	return metricsState.MSavg
}

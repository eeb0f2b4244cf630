package emulator

import (
	"time"
)

// Performance tracks the execution rate of an emulator. It is owned by the
// scheduler that calls Emulator.Run, one frame at a time.
type Performance struct {
	LastFrameSteps int       // Steps executed by the last Run.
	TotalSteps     int       // Steps executed since RunStart.
	RunStart       time.Time // Start of the measurement, set by the first Run.

	carry float64 // Fractional step left over by Budget.
}

// Restart begins a new measurement.
func (perf *Performance) Restart(now time.Time) {
	*perf = Performance{RunStart: now}
}

// record adds the steps of a finished frame.
func (perf *Performance) record(now time.Time, steps int) {
	if perf.RunStart.IsZero() {
		perf.RunStart = now
	}
	perf.LastFrameSteps = steps
	perf.TotalSteps += steps
}

// StepsPerSecond is the average execution rate since RunStart.
func (perf *Performance) StepsPerSecond(now time.Time) float64 {
	elapsed := now.Sub(perf.RunStart).Seconds()
	if perf.RunStart.IsZero() || elapsed <= 0 {
		return 0
	}
	return float64(perf.TotalSteps) / elapsed
}

// Budget returns the number of steps to execute in a frame of duration dt
// to run at rate steps per second. Fractions of a step accumulate from
// frame to frame.
func (perf *Performance) Budget(rate float64, dt time.Duration) (steps int) {
	if rate <= 0 || dt <= 0 {
		return
	}

	want := rate*dt.Seconds() + perf.carry
	steps = int(want)
	perf.carry = want - float64(steps)
	return
}

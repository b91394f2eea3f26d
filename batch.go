package parambulator

import (
	"context"
	"runtime"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/google/uuid"
)

// EclipseSample is the shadow condition of an observer at one epoch, or why
// it could not be computed.
type EclipseSample struct {
	Epoch    time.Time
	Geometry EclipseGeometry
	Err      error
}

// Sweeper evaluates independent samples on a fixed number of goroutines.
// Results are always returned in input order, and a failed sample never
// stops the others.
type Sweeper struct {
	Workers int
	RunID   string
	Logger  kitlog.Logger
	Metrics *SweepMetrics // may be nil
}

// NewSweeper returns a Sweeper with a fresh run ID. A non-positive number of
// workers defaults to the number of CPUs.
func NewSweeper(workers int, logger kitlog.Logger, metrics *SweepMetrics) *Sweeper {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Sweeper{Workers: workers, RunID: uuid.New().String(), Logger: nopIfNil(logger), Metrics: metrics}
}

// run calls do for each index in [0, n) and returns the indices which were
// not processed because ctx was done.
func (sw *Sweeper) run(ctx context.Context, n int, do func(i int)) []int {
	workers := sw.Workers
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan int, workers*2)
	done := make([]bool, n)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				do(i)
				done[i] = true
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	var skipped []int
	for i, ok := range done {
		if !ok {
			skipped = append(skipped, i)
		}
	}
	return skipped
}

// EclipseSweep classifies the shadow cast by the occulter occ on the observer
// for the light of src, at each epoch. Radii are read from bodies, positions
// from eph.
func (sw *Sweeper) EclipseSweep(ctx context.Context, eph Ephemeris, src, occ, observer string, bodies BodyTable, epochs []time.Time) ([]EclipseSample, error) {
	source, err := bodies.Lookup(src)
	if err != nil {
		return nil, err
	}
	occulter, err := bodies.Lookup(occ)
	if err != nil {
		return nil, err
	}
	logger := nopIfNil(sw.Logger)
	logger.Log("level", "info", "subsys", "sweep", "run", sw.RunID, "sweep", "eclipse", "source", source.Name, "occulter", occulter.Name, "observer", observer, "samples", len(epochs))
	start := time.Now()

	samples := make([]EclipseSample, len(epochs))
	skipped := sw.run(ctx, len(epochs), func(i int) {
		samples[i] = eclipseAt(eph, source, occulter, observer, epochs[i])
		sw.Metrics.observeSample("eclipse", samples[i].Err)
		if samples[i].Err != nil {
			logger.Log("level", "warning", "subsys", "sweep", "run", sw.RunID, "epoch", epochs[i].UTC(), "err", samples[i].Err)
			return
		}
		sw.Metrics.observeEclipse(samples[i].Geometry.Type)
	})
	for _, i := range skipped {
		samples[i] = EclipseSample{Epoch: epochs[i], Geometry: EclipseGeometry{Type: Invalid}, Err: ctx.Err()}
	}

	sw.Metrics.observeDuration("eclipse", time.Since(start).Seconds())
	logger.Log("level", "notice", "subsys", "sweep", "run", sw.RunID, "sweep", "eclipse", "status", "finished", "skipped", len(skipped), "duration", time.Since(start))
	return samples, nil
}

func eclipseAt(eph Ephemeris, source, occulter CelestialObject, observer string, epoch time.Time) EclipseSample {
	sample := EclipseSample{Epoch: epoch, Geometry: EclipseGeometry{Type: Invalid}}
	P1, err := eph.Position(source.Name, epoch)
	if err != nil {
		sample.Err = err
		return sample
	}
	P2, err := eph.Position(occulter.Name, epoch)
	if err != nil {
		sample.Err = err
		return sample
	}
	P3, err := eph.Position(observer, epoch)
	if err != nil {
		sample.Err = err
		return sample
	}
	sample.Geometry, sample.Err = NewEclipseGeometry(P1, P2, P3, source.Radius, occulter.Radius)
	return sample
}

// Trajectory propagates s to each of the Δν offsets (degrees) concurrently.
func (sw *Sweeper) Trajectory(ctx context.Context, s StateVector, μ float64, Δνs []float64) []TrajectorySample {
	logger := nopIfNil(sw.Logger)
	logger.Log("level", "info", "subsys", "sweep", "run", sw.RunID, "sweep", "trajectory", "samples", len(Δνs))
	start := time.Now()

	samples := make([]TrajectorySample, len(Δνs))
	skipped := sw.run(ctx, len(Δνs), func(i int) {
		state, err := Propagate(s, μ, Δνs[i])
		samples[i] = TrajectorySample{Δνs[i], state, err}
		sw.Metrics.observeSample("trajectory", err)
		if err != nil {
			logger.Log("level", "warning", "subsys", "sweep", "run", sw.RunID, "Δν", Δνs[i], "err", err)
		}
	})
	for _, i := range skipped {
		samples[i] = TrajectorySample{Δν: Δνs[i], Err: ctx.Err()}
	}

	sw.Metrics.observeDuration("trajectory", time.Since(start).Seconds())
	logger.Log("level", "notice", "subsys", "sweep", "run", sw.RunID, "sweep", "trajectory", "status", "finished", "skipped", len(skipped), "duration", time.Since(start))
	return samples
}

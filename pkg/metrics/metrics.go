package metrics

import (
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the time series store under dir. Calling it again
// replaces the previous store.
func InitMetrics(dir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(dir),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(24*time.Hour),
		tstorage.WithRetention(400*24*time.Hour),
	)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	mu.Lock()
	old := storage
	storage = s
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// SetGauge records value for name at the current time. It is a no-op until
// InitMetrics has succeeded.
func SetGauge(name string, value int64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
	}})
}

// Point is one recorded gauge value
type Point struct {
	Time  time.Time `json:"time"`
	Value int64     `json:"value"`
}

// Points returns the values of name recorded in [from, to).
func Points(name string, from, to time.Time) ([]Point, error) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return nil, nil
	}
	dps, err := storage.Select(name, nil, from.Unix(), to.Unix())
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select metric %s", name)
	}
	points := make([]Point, 0, len(dps))
	for _, dp := range dps {
		points = append(points, Point{Time: time.Unix(dp.Timestamp, 0), Value: int64(dp.Value)})
	}
	return points, nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}

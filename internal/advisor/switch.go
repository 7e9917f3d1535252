package advisor

import (
	"context"
	"sync/atomic"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

// Switch is a Client whose backing implementation can be replaced at
// runtime. The server uses it to apply advisor config changes on hot
// reload without restarting.
type Switch struct {
	v atomic.Value // holder
}

// holder keeps the stored type uniform for atomic.Value.
type holder struct{ c Client }

// NewSwitch returns a Switch backed by c.
func NewSwitch(c Client) *Switch {
	s := &Switch{}
	s.Set(c)
	return s
}

// Set replaces the backing client. In-flight calls finish on the old one.
func (s *Switch) Set(c Client) {
	s.v.Store(holder{c: c})
}

func (s *Switch) get() Client {
	return s.v.Load().(holder).c
}

func (s *Switch) Ask(ctx context.Context, question string, snap *dataset.Snapshot) (string, error) {
	return s.get().Ask(ctx, question, snap)
}

func (s *Switch) AnalyzeTrends(ctx context.Context, trends []dataset.MonthlyTrend) (string, error) {
	return s.get().AnalyzeTrends(ctx, trends)
}

func (s *Switch) PredictScores(ctx context.Context, snap *dataset.Snapshot) (*Prediction, error) {
	return s.get().PredictScores(ctx, snap)
}

package usecase

import "time"

// ScoringMetrics receives counters from the scoring use cases.
type ScoringMetrics interface {
	ObserveCalculation(position, source string, score float64)
	IncProviderError(position string)
	ObserveRescore(elapsed time.Duration, scored, failed int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveCalculation(string, string, float64) {}
func (noopMetrics) IncProviderError(string)                    {}
func (noopMetrics) ObserveRescore(time.Duration, int, int)     {}

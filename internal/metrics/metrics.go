// Package metrics exposes Prometheus counters for ladder computations.
//
//   - ladder_requests_total{surface}      – computations requested (http|telegram|reminder|cli)
//   - ladder_plans_total{side,rungs}      – plans produced
//   - ladder_invalid_input_total{surface} – contexts rejected by validation
//   - ladder_clipped_rungs_total{side}    – rungs clamped onto a zone edge
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"LadderSentinel/internal/ladder"
	"LadderSentinel/internal/model"
)

var (
	mtxRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladder_requests_total",
			Help: "Ladder computations requested",
		},
		[]string{"surface"},
	)

	mtxPlans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladder_plans_total",
			Help: "Ladder plans produced",
		},
		[]string{"side", "rungs"},
	)

	mtxInvalid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladder_invalid_input_total",
			Help: "Trade contexts rejected by validation",
		},
		[]string{"surface"},
	)

	mtxClipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladder_clipped_rungs_total",
			Help: "Rungs clamped onto a zone edge",
		},
		[]string{"side"},
	)
)

func init() {
	prometheus.MustRegister(mtxRequests, mtxPlans, mtxInvalid, mtxClipped)
}

// Compute wraps ladder.Compute and records the outcome under surface.
func Compute(surface string, ctx model.TradeContext, p ladder.Params) (*model.LadderPlan, error) {
	mtxRequests.WithLabelValues(surface).Inc()
	plan, err := ladder.Compute(ctx, p)
	if err != nil {
		if errors.Is(err, ladder.ErrInvalidInput) {
			mtxInvalid.WithLabelValues(surface).Inc()
		}
		return nil, err
	}
	side := string(plan.Side)
	mtxPlans.WithLabelValues(side, strconv.Itoa(plan.RungCount)).Inc()
	for _, r := range plan.Rungs {
		if r.Clipped {
			mtxClipped.WithLabelValues(side).Inc()
		}
	}
	return plan, nil
}

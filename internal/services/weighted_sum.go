package services

import (
	"context"
	"fmt"

	"github.com/shaiso/xws/internal/telemetry"
	"github.com/shaiso/xws/internal/xmcda"
	"github.com/shaiso/xws/internal/xws"
)

// WeightedSum вычисляет взвешенную сумму оценок каждой активной альтернативы.
//
// Без файла весов все активные критерии получают равный вес.
type WeightedSum struct {
	Messages     *xmcda.MethodMessages
	Alternatives *xmcda.Alternatives
	Criteria     *xmcda.Criteria
	Weights      *xmcda.CriteriaValues
	Performances *xmcda.PerformanceTable
	Scores       *xmcda.AlternativesValues
}

// NewWeightedSum создаёт сервис.
func NewWeightedSum() *WeightedSum {
	return &WeightedSum{}
}

// WeightedSumType — описание сервиса weighted-sum.
var WeightedSumType = xws.Define("weighted-sum", NewWeightedSum,
	xws.ErrorsField("messages", func(s *WeightedSum) **xmcda.MethodMessages { return &s.Messages }),
	xws.Input("alternatives", func(s *WeightedSum) **xmcda.Alternatives { return &s.Alternatives }),
	xws.Input("criteria", func(s *WeightedSum) **xmcda.Criteria { return &s.Criteria }),
	xws.Input("weights", func(s *WeightedSum) **xmcda.CriteriaValues { return &s.Weights }, xws.Optional()),
	xws.Input("performanceTable", func(s *WeightedSum) **xmcda.PerformanceTable { return &s.Performances }),
	xws.Output("alternativesValues", func(s *WeightedSum) **xmcda.AlternativesValues { return &s.Scores }),
	xws.Output("messages", func(s *WeightedSum) **xmcda.MethodMessages { return &s.Messages }),
)

// Execute реализует xws.Service.
func (s *WeightedSum) Execute(ctx context.Context) error {
	logger := telemetry.FromContext(ctx)

	alternatives := s.Alternatives.IDs()
	criteria := s.Criteria.IDs()
	if len(criteria) == 0 {
		return xws.Invalid("no active criteria")
	}

	weights, err := s.weights(criteria)
	if err != nil {
		return err
	}

	scores := &xmcda.AlternativesValues{MCDAConcept: "weightedSum"}
	for _, alt := range alternatives {
		var sum float64
		for _, crit := range criteria {
			perf, ok := s.Performances.Get(alt, crit)
			if !ok {
				return xws.Invalid("no performance for alternative %s on criterion %s", alt, crit)
			}
			sum += weights[crit] * perf
		}
		scores.Values = append(scores.Values, xmcda.AlternativeValue{
			AlternativeID: alt,
			Value:         xmcda.Real(sum),
		})
	}

	s.Scores = scores
	s.Messages.AddLog(fmt.Sprintf("weighted sum computed for %d alternatives on %d criteria",
		len(alternatives), len(criteria)))
	logger.Debug("weighted sum computed", "alternatives", len(alternatives), "criteria", len(criteria))
	return nil
}

// weights возвращает веса активных критериев.
func (s *WeightedSum) weights(criteria []string) (map[string]float64, error) {
	out := make(map[string]float64, len(criteria))

	if s.Weights == nil {
		for _, crit := range criteria {
			out[crit] = 1 / float64(len(criteria))
		}
		return out, nil
	}

	given := s.Weights.Map()
	for _, crit := range criteria {
		w, ok := given[crit]
		if !ok {
			return nil, xws.Invalid("no weight for criterion %s", crit)
		}
		if w < 0 {
			return nil, xws.Invalid("negative weight %g for criterion %s", w, crit)
		}
		out[crit] = w
	}
	return out, nil
}

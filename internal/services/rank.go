package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/shaiso/xws/internal/xmcda"
	"github.com/shaiso/xws/internal/xws"
)

// Rank ранжирует альтернативы по значениям: большее значение — меньший ранг.
//
// Ранжирование плотное: равные значения получают один ранг,
// следующий ранг не пропускается.
type Rank struct {
	Messages *xmcda.MethodMessages
	Values   *xmcda.AlternativesValues
	Ranks    *xmcda.AlternativesValues
}

// NewRank создаёт сервис.
func NewRank() *Rank {
	return &Rank{}
}

// RankType — описание сервиса rank.
var RankType = xws.Define("rank", NewRank,
	xws.ErrorsField("messages", func(s *Rank) **xmcda.MethodMessages { return &s.Messages }),
	xws.Input("alternativesValues", func(s *Rank) **xmcda.AlternativesValues { return &s.Values }),
	xws.Output("alternativesRanks", func(s *Rank) **xmcda.AlternativesValues { return &s.Ranks }),
	xws.Output("messages", func(s *Rank) **xmcda.MethodMessages { return &s.Messages }),
)

type scored struct {
	id    string
	value float64
}

// Execute реализует xws.Service.
func (s *Rank) Execute(context.Context) error {
	items := make([]scored, 0, len(s.Values.Values))
	for _, v := range s.Values.Values {
		f, ok := v.Value.Float()
		if !ok {
			return xws.Invalid("alternative %s has no numeric value", v.AlternativeID)
		}
		items = append(items, scored{id: v.AlternativeID, value: f})
	}

	slices.SortStableFunc(items, func(a, b scored) int {
		return cmp.Compare(b.value, a.value)
	})

	ranks := &xmcda.AlternativesValues{MCDAConcept: "ranks"}
	rank := 0
	for i, it := range items {
		if i == 0 || it.value != items[i-1].value {
			rank++
		}
		ranks.Values = append(ranks.Values, xmcda.AlternativeValue{
			AlternativeID: it.id,
			Value:         xmcda.Integer(rank),
		})
	}

	s.Ranks = ranks
	s.Messages.AddLog(fmt.Sprintf("%d alternatives ranked into %d ranks", len(items), rank))
	return nil
}

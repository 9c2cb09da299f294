package services

import (
	"log/slog"

	"github.com/shaiso/xws/internal/telemetry"
	"github.com/shaiso/xws/internal/xmcda"
	"github.com/shaiso/xws/internal/xws"
)

// DefaultRegistry возвращает реестр со всеми сервисами пакета.
func DefaultRegistry() *xws.Registry {
	r := xws.NewRegistry()
	r.Register(WeightedSumType)
	r.Register(RankType)
	return r
}

// NewExecutor создаёт executor со стандартными трансформерами XMCDA.
// reg == nil — DefaultRegistry().
func NewExecutor(reg *xws.Registry, logger *slog.Logger, metrics *telemetry.Metrics, validate bool) (*xws.Executor, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return xws.New(xws.Options{
		Registry: reg,
		Input:    xmcda.NewInputTransformer(),
		Output:   xmcda.NewOutputTransformer(validate),
		Writer:   xmcda.NewWriter(),
		Logger:   logger,
		Metrics:  metrics,
	})
}

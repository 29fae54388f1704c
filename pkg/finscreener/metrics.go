package finscreener

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type clientMetrics struct {
	invocations    *prometheus.CounterVec
	quotaDenials   *prometheus.CounterVec
	tokenExchanges *prometheus.CounterVec
}

func newClientMetrics(registerer prometheus.Registerer) *clientMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registerer)

	return &clientMetrics{
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscreener_tool_invocations_total",
				Help: "Total tool invocations by tool name and result",
			},
			[]string{"tool", "result"},
		),
		quotaDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscreener_quota_denials_total",
				Help: "Total local quota admission denials by endpoint class",
			},
			[]string{"class"},
		),
		tokenExchanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscreener_token_exchanges_total",
				Help: "Total API key to bearer token exchanges by result",
			},
			[]string{"result"},
		),
	}
}

func (m *clientMetrics) observeInvocation(tool, result string) {
	m.invocations.WithLabelValues(tool, result).Inc()
}

func (m *clientMetrics) observeQuotaDenial(class Class) {
	m.quotaDenials.WithLabelValues(string(class)).Inc()
}

func (m *clientMetrics) observeExchange(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}

	m.tokenExchanges.WithLabelValues(result).Inc()
}

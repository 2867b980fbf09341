// Package metrics exports call counters and DAO state gauges to prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"mygov_dao/contract"
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

const namespace = "mygov"

// Calls counts and times every contract entry point. It satisfies contract.Observer.
type Calls struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCalls registers the call metrics with reg.
func NewCalls(reg prometheus.Registerer) *Calls {
	f := promauto.With(reg)
	return &Calls{
		total: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "contract",
				Name:      "calls_total",
				Help:      "Contract calls by action and outcome (ok or the error kind)",
			},
			[]string{"action", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "contract",
				Name:      "call_duration_seconds",
				Help:      "Contract call duration in seconds including the commit",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"action"},
		),
	}
}

// ObserveCall implements contract.Observer.
func (m *Calls) ObserveCall(action string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = contract.KindOf(err).String()
	}
	m.total.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// StatsSource is what the collector reads on every scrape.
type StatsSource interface {
	Stats() (contract.Stats, error)
}

// StatsCollector turns DAO.Stats into gauges at scrape time, nothing is cached.
type StatsCollector struct {
	src StatsSource
	log *zap.Logger

	members     *prometheus.Desc
	projects    *prometheus.Desc
	funded      *prometheus.Desc
	surveys     *prometheus.Desc
	supply      *prometheus.Desc
	treasuryTL  *prometheus.Desc
	reservedTL  *prometheus.Desc
	initialized *prometheus.Desc
}

// NewStatsCollector builds the collector, register it with prometheus.Registerer.Register.
func NewStatsCollector(src StatsSource, log *zap.Logger) *StatsCollector {
	if log == nil {
		log = zap.NewNop()
	}
	name := func(n string) string { return prometheus.BuildFQName(namespace, "dao", n) }
	return &StatsCollector{
		src:         src,
		log:         log,
		members:     prometheus.NewDesc(name("members"), "Accounts holding at least one MyGov, treasury excluded", nil, nil),
		projects:    prometheus.NewDesc(name("projects"), "Project proposals ever submitted", nil, nil),
		funded:      prometheus.NewDesc(name("funded_projects"), "Project grants ever reserved", nil, nil),
		surveys:     prometheus.NewDesc(name("surveys"), "Surveys ever submitted", nil, nil),
		supply:      prometheus.NewDesc(name("token_supply"), "Total supply in whole tokens", []string{"asset"}, nil),
		treasuryTL:  prometheus.NewDesc(name("treasury_tl"), "TL held by the treasury in whole tokens", nil, nil),
		reservedTL:  prometheus.NewDesc(name("reserved_tl"), "Treasury TL locked for funded projects in whole tokens", nil, nil),
		initialized: prometheus.NewDesc(name("initialized"), "1 once the contract was initialized", nil, nil),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.members
	ch <- c.projects
	ch <- c.funded
	ch <- c.surveys
	ch <- c.supply
	ch <- c.treasuryTL
	ch <- c.reservedTL
	ch <- c.initialized
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s, err := c.src.Stats()
	if err != nil {
		if contract.KindOf(err) != contract.KindNotFound {
			c.log.Warn("stats scrape failed", zap.Error(err))
		}
		ch <- prometheus.MustNewConstMetric(c.initialized, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.initialized, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(c.members, prometheus.GaugeValue, float64(s.Members))
	ch <- prometheus.MustNewConstMetric(c.projects, prometheus.GaugeValue, float64(s.Projects))
	ch <- prometheus.MustNewConstMetric(c.funded, prometheus.GaugeValue, float64(s.FundedProjects))
	ch <- prometheus.MustNewConstMetric(c.surveys, prometheus.GaugeValue, float64(s.Surveys))
	ch <- prometheus.MustNewConstMetric(c.supply, prometheus.GaugeValue, tokens(s.SupplyTL, sdk.AssetTL), sdk.AssetTL.String())
	ch <- prometheus.MustNewConstMetric(c.supply, prometheus.GaugeValue, tokens(s.SupplyMyGov, sdk.AssetMyGov), sdk.AssetMyGov.String())
	ch <- prometheus.MustNewConstMetric(c.treasuryTL, prometheus.GaugeValue, tokens(s.TreasuryTL, sdk.AssetTL))
	ch <- prometheus.MustNewConstMetric(c.reservedTL, prometheus.GaugeValue, tokens(s.ReservedTL, sdk.AssetTL))
}

// tokens scales base units down to whole tokens; float precision is fine for a gauge.
func tokens(v *uint256.Int, asset sdk.Asset) float64 {
	f, err := strconv.ParseFloat(dao.FormatTokenAmount(v, asset.Decimals()), 64)
	if err != nil {
		return 0
	}
	return f
}

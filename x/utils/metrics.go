package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator counting processed transactions and measuring
// their duration, labeled by message path, phase and result code.
type Metrics struct {
	txs       *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

var _ tokenescrow.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors
// in reg.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_total",
			Help:      "Total transactions processed, by message path, phase and result code.",
		}, []string{"path", "phase", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tx_duration_seconds",
			Help:      "Duration of transaction processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "phase"}),
	}
	for _, c := range []prometheus.Collector{m.txs, m.durations} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(errors.ErrHuman, err.Error())
		}
	}
	return m, nil
}

// Check records the result of the check phase.
func (m *Metrics) Check(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Checker) (res *tokenescrow.CheckResult, err error) {
	defer m.observe(tx, "check", time.Now(), &err)
	return next.Check(ctx, store, tx)
}

// Deliver records the result of the deliver phase.
func (m *Metrics) Deliver(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Deliverer) (res *tokenescrow.DeliverResult, err error) {
	defer m.observe(tx, "deliver", time.Now(), &err)
	return next.Deliver(ctx, store, tx)
}

// observe is deferred by Check and Deliver. A panic is counted with the
// ErrPanic code and then continues unwinding.
func (m *Metrics) observe(tx tokenescrow.Tx, phase string, start time.Time, errp *error) {
	err := *errp
	if p := recover(); p != nil {
		err = errors.ErrPanic
		defer panic(p)
	}
	path := txPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(path, phase, strconv.FormatUint(uint64(code), 10)).Inc()
	m.durations.WithLabelValues(path, phase).Observe(time.Since(start).Seconds())
}

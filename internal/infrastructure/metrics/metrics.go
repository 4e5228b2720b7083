package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oziev02/CommentField/internal/domain"
)

const namespace = "commentfield"

// Metrics счётчики приёма, отказов и голосования
type Metrics struct {
	rejections  *prometheus.CounterVec
	submissions *prometheus.CounterVec
	votes       *prometheus.CounterVec
}

// New создает счётчики и регистрирует их в reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Comment threading checks that rejected an operation.",
		}, []string{"field", "op", "reason"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Accepted comment submissions by initial status.",
		}, []string{"field", "status"}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Comment votes by direction.",
		}, []string{"field", "direction"}),
	}

	for _, c := range []prometheus.Collector{m.rejections, m.submissions, m.votes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) ObserveRejection(field, op, reason string) {
	m.rejections.WithLabelValues(field, op, reason).Inc()
}

func (m *Metrics) ObserveSubmission(field string, status domain.CommentStatus) {
	m.submissions.WithLabelValues(field, status.String()).Inc()
}

func (m *Metrics) ObserveVote(field string, up bool) {
	direction := "down"
	if up {
		direction = "up"
	}
	m.votes.WithLabelValues(field, direction).Inc()
}

// Package api serves the DAO over JSON HTTP. Callers identify themselves with the X-Caller
// header; the node trusts it, so the api belongs behind whatever signs requests.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mygov_dao/contract"
)

const (
	headerCaller    = "X-Caller"
	headerTimestamp = "X-Timestamp"
)

// Options wires the optional parts of the router.
type Options struct {
	Logger *zap.Logger
	// AllowTimeOverride honours X-Timestamp and ?at=, meant for test networks.
	AllowTimeOverride bool
	// Metrics is mounted at MetricsPath when set.
	Metrics     http.Handler
	MetricsPath string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Server holds the handlers. Build it with NewRouter.
type Server struct {
	dao               *contract.DAO
	log               *zap.Logger
	allowTimeOverride bool
	clock             func() time.Time
}

// NewRouter registers every route and the middleware stack.
func NewRouter(d *contract.DAO, opts Options) http.Handler {
	s := &Server{
		dao:               d,
		log:               opts.Logger,
		allowTimeOverride: opts.AllowTimeOverride,
		clock:             opts.Clock,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.healthz)
	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.stats)
		r.Post("/faucet", s.faucet)

		r.Route("/tokens/{asset}", func(r chi.Router) {
			r.Post("/transfer", s.transfer)
			r.Post("/transfer-from", s.transferFrom)
			r.Post("/approve", s.approve)
			r.Post("/mint", s.mint)
			r.Get("/balance/{address}", s.balance)
			r.Get("/allowance/{owner}/{spender}", s.allowance)
			r.Get("/supply", s.supply)
		})

		r.Get("/members/{address}", s.member)
		r.Get("/members/{address}/commitments", s.commitments)

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", s.submitProject)
			r.Get("/", s.listProjects)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getProject)
				r.Post("/vote", s.voteProject)
				r.Post("/delegate", s.delegate)
				r.Post("/reserve", s.reserve)
				r.Post("/payment-vote", s.votePayment)
				r.Post("/withdraw", s.withdraw)
				r.Post("/release", s.release)
				r.Get("/votes", s.projectVotes)
				r.Get("/payment-votes", s.paymentVotes)
				r.Get("/eligible", s.eligible)
			})
		})

		r.Route("/surveys", func(r chi.Router) {
			r.Post("/", s.submitSurvey)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSurvey)
				r.Post("/take", s.takeSurvey)
				r.Get("/results", s.surveyResults)
				r.Get("/taken/{address}", s.surveyTaken)
			})
		})

		r.Post("/donations/{asset}", s.donate)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"initialized": s.dao.Initialized(),
	})
}

package api

import (
	"net/http"

	"github.com/holiman/uint256"

	"mygov_dao/contract"
	"mygov_dao/sdk"
)

type projectRequest struct {
	WebURL         string   `json:"web_url"`
	VoteDeadline   int64    `json:"vote_deadline"`
	PaymentAmounts []string `json:"payment_amounts"`
	PaySchedule    []int64  `json:"pay_schedule"`
}

// voteRequest takes a pointer so a missing choice is rejected instead of read as no.
type voteRequest struct {
	Choice *bool `json:"choice"`
}

func (v voteRequest) choice() (bool, error) {
	if v.Choice == nil {
		return false, badRequest("MISSING_CHOICE", "choice must be true or false")
	}
	return *v.Choice, nil
}

type delegateRequest struct {
	To string `json:"to"`
}

func (s *Server) submitProject(w http.ResponseWriter, r *http.Request) {
	var body projectRequest
	s.mutate(w, r, http.StatusCreated, &body, func(env sdk.Env) (any, error) {
		amounts := make([]*uint256.Int, len(body.PaymentAmounts))
		for i, raw := range body.PaymentAmounts {
			amt, err := amountOf(raw, sdk.AssetTL)
			if err != nil {
				return nil, err
			}
			amounts[i] = amt
		}
		id, err := s.dao.SubmitProjectProposal(env, contract.ProjectProposal{
			WebURL:         body.WebURL,
			VoteDeadline:   body.VoteDeadline,
			PaymentAmounts: amounts,
			PaySchedule:    body.PaySchedule,
		})
		if err != nil {
			return nil, err
		}
		return map[string]uint64{"id": id}, nil
	})
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(at int64) (any, error) {
		total, err := s.dao.GetNoOfProjectProposals()
		if err != nil {
			return nil, err
		}
		start, err := queryUint(r, "start", 0)
		if err != nil {
			return nil, err
		}
		end, err := queryUint(r, "end", total)
		if err != nil {
			return nil, err
		}
		infos, err := s.dao.GetProjects(start, end, at)
		if err != nil {
			return nil, err
		}
		out := make([]projectDTO, 0, len(infos))
		for _, info := range infos {
			out = append(out, toProjectDTO(info))
		}
		return map[string]any{"total": total, "projects": out}, nil
	})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(at int64) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		info, err := s.dao.GetProjectInfo(id, at)
		if err != nil {
			return nil, err
		}
		return toProjectDTO(info), nil
	})
}

func (s *Server) voteProject(w http.ResponseWriter, r *http.Request) {
	var body voteRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		choice, err := body.choice()
		if err != nil {
			return nil, err
		}
		return nil, s.dao.VoteForProjectProposal(env, id, choice)
	})
}

func (s *Server) delegate(w http.ResponseWriter, r *http.Request) {
	var body delegateRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.DelegateVoteTo(env, sdk.Address(body.To), id)
	})
}

func (s *Server) reserve(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, nil, func(env sdk.Env) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.ReserveProjectGrant(env, id)
	})
}

func (s *Server) votePayment(w http.ResponseWriter, r *http.Request) {
	var body voteRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		choice, err := body.choice()
		if err != nil {
			return nil, err
		}
		return nil, s.dao.VoteForProjectPayment(env, id, choice)
	})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, nil, func(env sdk.Env) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.WithdrawProjectTLPayment(env, id)
	})
}

func (s *Server) release(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, nil, func(env sdk.Env) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.ReleaseLapsedGrant(env, id)
	})
}

func (s *Server) projectVotes(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		yes, no, err := s.dao.GetNumOfVotes(id)
		if err != nil {
			return nil, err
		}
		return votesDTO{Yes: yes, No: no}, nil
	})
}

func (s *Server) paymentVotes(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		yes, no, err := s.dao.GetNumOfVotesPayment(id)
		if err != nil {
			return nil, err
		}
		return votesDTO{Yes: yes, No: no}, nil
	})
}

func (s *Server) eligible(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		ok, err := s.dao.GetProjectEligibleForPayment(id)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"eligible": ok}, nil
	})
}

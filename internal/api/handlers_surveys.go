package api

import (
	"net/http"

	"mygov_dao/contract"
	"mygov_dao/sdk"
)

type surveyRequest struct {
	WebURL       string `json:"web_url"`
	Deadline     int64  `json:"deadline"`
	NumChoices   uint32 `json:"num_choices"`
	AtMostChoice uint32 `json:"at_most_choice"`
}

type takeSurveyRequest struct {
	Choices []uint32 `json:"choices"`
}

func (s *Server) submitSurvey(w http.ResponseWriter, r *http.Request) {
	var body surveyRequest
	s.mutate(w, r, http.StatusCreated, &body, func(env sdk.Env) (any, error) {
		id, err := s.dao.SubmitSurvey(env, contract.SurveyProposal{
			WebURL:       body.WebURL,
			Deadline:     body.Deadline,
			NumChoices:   body.NumChoices,
			AtMostChoice: body.AtMostChoice,
		})
		if err != nil {
			return nil, err
		}
		return map[string]uint64{"id": id}, nil
	})
}

func (s *Server) getSurvey(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		sv, err := s.dao.GetSurveyInfo(id)
		if err != nil {
			return nil, err
		}
		return toSurveyDTO(sv), nil
	})
}

func (s *Server) takeSurvey(w http.ResponseWriter, r *http.Request) {
	var body takeSurveyRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.TakeSurvey(env, id, body.Choices)
	})
}

func (s *Server) surveyResults(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		taken, results, err := s.dao.GetSurveyResults(id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"num_taken": taken, "results": results}, nil
	})
}

func (s *Server) surveyTaken(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		id, err := idParam(r)
		if err != nil {
			return nil, err
		}
		taken, err := s.dao.GetIfSurveyTaken(addressParam(r, "address"), id)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"taken": taken}, nil
	})
}

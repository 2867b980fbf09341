package contract

import (
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

func (c *call) loadSurvey(id uint64) (*dao.Survey, error) {
	ptr := c.st.Get(surveyKey(id))
	if ptr == nil {
		return nil, ErrSurveyNotFound.withf("id %d", id)
	}
	s, err := dao.DecodeSurvey([]byte(*ptr))
	if err != nil {
		return nil, internalError("decode survey", err)
	}
	return s, nil
}

func (c *call) saveSurvey(s *dao.Survey) {
	c.st.Set(surveyKey(s.ID), string(dao.EncodeSurvey(s)))
}

// SurveyProposal is the input of SubmitSurvey.
type SurveyProposal struct {
	WebURL       string
	Deadline     int64
	NumChoices   uint32
	AtMostChoice uint32
}

func (p SurveyProposal) validate(now int64) error {
	if len(p.WebURL) > MaxURLLength {
		return ErrURLTooLong
	}
	if p.Deadline <= now {
		return ErrInvalidDeadline
	}
	if p.NumChoices == 0 || p.NumChoices > MaxSurveyChoices {
		return ErrInvalidSurvey.withf("numChoices must be within 1..%d", MaxSurveyChoices)
	}
	if p.AtMostChoice == 0 || p.AtMostChoice > p.NumChoices {
		return ErrInvalidSurvey.withf("atMostChoice must be within 1..numChoices")
	}
	return nil
}

// SubmitSurvey opens a poll among members and charges the survey fee.
func (d *DAO) SubmitSurvey(env sdk.Env, p SurveyProposal) (uint64, error) {
	var id uint64
	err := d.exec(env, "submit_survey", true, func(c *call) error {
		if err := p.validate(c.now()); err != nil {
			return err
		}
		owner := c.sender()
		if err := c.requireMember(owner, ErrNotMember); err != nil {
			return err
		}
		if err := c.chargeFee(sdk.AssetMyGov, owner, c.cfg.SurveyFeeMyGov); err != nil {
			return err
		}
		if err := c.chargeFee(sdk.AssetTL, owner, c.cfg.SurveyFeeTL); err != nil {
			return err
		}
		next, err := c.incCount(SurveysCount)
		if err != nil {
			return err
		}
		s := &dao.Survey{
			ID:           next,
			Owner:        owner,
			WebURL:       p.WebURL,
			Deadline:     p.Deadline,
			NumChoices:   p.NumChoices,
			AtMostChoice: p.AtMostChoice,
			Results:      make([]uint64, p.NumChoices),
			CreatedAt:    c.now(),
			Tx:           c.env.TxID,
		}
		c.saveSurvey(s)
		c.emitSurveyCreated(s.ID, owner)
		id = s.ID
		return nil
	})
	return id, err
}

// TakeSurvey records one response of up to AtMostChoice distinct options.
func (d *DAO) TakeSurvey(env sdk.Env, id uint64, choices []uint32) error {
	return d.exec(env, "take_survey", true, func(c *call) error {
		s, err := c.loadSurvey(id)
		if err != nil {
			return err
		}
		by := c.sender()
		if err := c.requireMember(by, ErrNotMember); err != nil {
			return err
		}
		takenKey := surveyTakenKey(id, by)
		if c.st.Get(takenKey) != nil {
			return ErrAlreadyTaken
		}
		if c.now() >= s.Deadline {
			return ErrSurveyExpired
		}
		if len(choices) == 0 {
			return ErrNoChoices
		}
		if uint32(len(choices)) > s.AtMostChoice {
			return ErrTooManyChoices.withf("at most %d", s.AtMostChoice)
		}
		seen := make(map[uint32]bool, len(choices))
		for _, ch := range choices {
			if ch >= s.NumChoices {
				return ErrInvalidChoiceIndex.withf("%d", ch)
			}
			if seen[ch] {
				return ErrDuplicateChoice.withf("%d", ch)
			}
			seen[ch] = true
		}
		for _, ch := range choices {
			s.Results[ch]++
		}
		s.NumTaken++
		c.saveSurvey(s)
		c.st.Set(takenKey, "1")
		c.emitSurveyTaken(id, by, choices)
		return nil
	})
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

// GetNoOfSurveys returns how many surveys were ever submitted.
func (d *DAO) GetNoOfSurveys() (uint64, error) {
	var n uint64
	err := d.view(func(c *call) error {
		var err error
		n, err = c.getCount(SurveysCount)
		return err
	})
	return n, err
}

// GetSurveyInfo returns the stored survey record.
func (d *DAO) GetSurveyInfo(id uint64) (*dao.Survey, error) {
	var out *dao.Survey
	err := d.view(func(c *call) error {
		var err error
		out, err = c.loadSurvey(id)
		return err
	})
	return out, err
}

// GetSurveyOwner returns who opened the survey.
func (d *DAO) GetSurveyOwner(id uint64) (sdk.Address, error) {
	s, err := d.GetSurveyInfo(id)
	if err != nil {
		return "", err
	}
	return s.Owner, nil
}

// GetSurveyResults returns the respondent count and the per choice tallies.
func (d *DAO) GetSurveyResults(id uint64) (uint64, []uint64, error) {
	s, err := d.GetSurveyInfo(id)
	if err != nil {
		return 0, nil, err
	}
	return s.NumTaken, s.Results, nil
}

// GetIfSurveyTaken reports whether addr already answered survey id.
func (d *DAO) GetIfSurveyTaken(addr sdk.Address, id uint64) (bool, error) {
	addr, err := canonical(addr)
	if err != nil {
		return false, err
	}
	var taken bool
	err = d.view(func(c *call) error {
		if _, err := c.loadSurvey(id); err != nil {
			return err
		}
		taken = c.st.Get(surveyTakenKey(id, addr)) != nil
		return nil
	})
	return taken, err
}

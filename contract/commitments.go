package contract

import (
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// addCommitment remembers that addr has a stake in the outcome of project id.
func (c *call) addCommitment(addr sdk.Address, id uint64) error {
	return c.addIDToIndex(commitIndexKey(addr), id)
}

// commitmentOpen is true while the vote on prj can still change anything: proposal voting
// is running, or a funded milestone is pending.
func commitmentOpen(prj *dao.Project, now int64) bool {
	if now < prj.VoteDeadline {
		return true
	}
	return prj.BeingFunded && !prj.FullyPaid() && now < prj.PaySchedule[prj.NextMilestone]
}

// hasOpenCommitment scans addr's commitments, pruning the ones that closed along the way.
func (c *call) hasOpenCommitment(addr sdk.Address) (bool, error) {
	base := commitIndexKey(addr)
	ids, err := c.getIDsFromIndex(base)
	if err != nil {
		return false, err
	}
	open := false
	closed := map[uint64]bool{}
	for _, id := range ids {
		prj, err := c.loadProject(id)
		if err != nil {
			return false, err
		}
		if commitmentOpen(prj, c.now()) {
			open = true
			continue
		}
		closed[id] = true
	}
	if err := c.removeIDsFromIndex(base, closed); err != nil {
		return false, err
	}
	return open, nil
}

// OpenCommitments lists the projects addr is still committed to at time at.
func (d *DAO) OpenCommitments(addr sdk.Address, at int64) ([]uint64, error) {
	addr, err := canonical(addr)
	if err != nil {
		return nil, err
	}
	out := []uint64{}
	err = d.view(func(c *call) error {
		ids, err := c.getIDsFromIndex(commitIndexKey(addr))
		if err != nil {
			return err
		}
		for _, id := range ids {
			prj, err := c.loadProject(id)
			if err != nil {
				return err
			}
			if commitmentOpen(prj, at) {
				out = append(out, id)
			}
		}
		return nil
	})
	return out, err
}

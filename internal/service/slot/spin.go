package slot

import (
	"context"

	"cluster_slots/internal/model"

	"go.uber.org/zap"
)

// Spin resolves one spin for the session. An unknown id starts from a new
// session state. When the spin resolved but could not be saved, the result is
// returned together with an ErrPersistenceUnavailable error; the outcome stands.
func (s *serv) Spin(ctx context.Context, id string, req model.SpinRequest) (*model.SpinResult, error) {
	if req.Stake != 0 {
		if err := s.engine.ValidateStake(req.Stake); err != nil {
			return nil, err
		}
	}
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	var res *model.SpinResult
	st, err := s.update(ctx, id, true, func(st model.SessionState) (model.SessionState, error) {
		r, err := s.engine.Play(st, req)
		if err != nil {
			return st, err
		}
		res = r
		return r.State, nil
	})
	if st == nil {
		return nil, err
	}
	res.State = *st

	sum := res.Summary
	s.statsRepo.Record(sum.StakeDeducted, sum.TotalWin, sum.FreeSpin)
	s.log.Debug("spin resolved",
		zap.String("session", id),
		zap.Int("stake", st.Stake),
		zap.Int("rounds", len(res.Rounds)),
		zap.Int("win", sum.TotalWin),
		zap.Int("meter", st.ProgressMeter),
		zap.Int("free_spins", st.FreeSpinsRemaining),
		zap.String("bonus", string(sum.BonusTransition)),
	)
	return res, err
}

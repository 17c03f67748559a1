package engine

import (
	"fmt"

	"cluster_slots/internal/model"
	"cluster_slots/pkg/rng"
)

// Engine resolves whole spins over a SessionState value. It holds no session
// data and does no I/O; callers own persistence and must not run two spins
// on the same session concurrently.
type Engine struct {
	rules    Rules
	cat      *Catalog
	src      gridSource
	eval     *Evaluator
	resolver *Resolver
	meter    *Meter
	bonus    *Bonus
}

// New validates rules and wires the engine around random.
func New(rules Rules, random rng.Source) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{rules: rules}
	e.cat = NewCatalog(&e.rules)
	e.src = NewGenerator(&e.rules, e.cat, NewSampler(random))
	e.eval = NewEvaluator(&e.rules, e.cat)
	e.resolver = NewResolver(e.eval, e.src, e.rules.MaxCascadeRounds)
	e.meter = NewMeter(&e.rules)
	e.bonus = NewBonus(&e.rules, e.cat)
	return e, nil
}

func (e *Engine) Rules() Rules { return e.rules }

func (e *Engine) Catalog() *Catalog { return e.cat }

// NewState is the state of a session that has never been played.
func (e *Engine) NewState() model.SessionState {
	return model.SessionState{
		Currency: e.rules.StartingCurrency,
		Stake:    e.rules.DefaultStake,
	}
}

// Reset clears progression and any bonus session; currency and stake stay.
func (e *Engine) Reset(st model.SessionState) model.SessionState {
	out := st.Clone()
	out.ProgressMeter = 0
	out.UnlockedRewards = nil
	out.FreeSpinsRemaining = 0
	out.StickyWilds = nil
	return out
}

func (e *Engine) ValidateStake(stake int) error {
	if stake < e.rules.MinStake || stake > e.rules.MaxStake {
		return fmt.Errorf("%w: %d not in [%d,%d]", model.ErrInvalidStake, stake, e.rules.MinStake, e.rules.MaxStake)
	}
	return nil
}

// Play resolves one spin against prev and returns the resolved state in the
// result. prev is never modified, so a failed spin commits nothing, stake
// deduction included. During a bonus session the session stake is locked and
// req.Stake is ignored.
func (e *Engine) Play(prev model.SessionState, req model.SpinRequest) (*model.SpinResult, error) {
	st := prev.Clone()

	stake := st.Stake
	if req.Stake != 0 && !st.InBonus() {
		stake = req.Stake
	}
	if err := e.ValidateStake(stake); err != nil {
		return nil, err
	}

	var sum model.SpinSummary
	sp := &bonusSpin{free: e.bonus.Consume(&st)}
	if !sp.free {
		if st.Currency < stake {
			return nil, model.ErrInsufficientFunds
		}
		st.Currency -= stake
		st.Stake = stake
		sum.StakeDeducted = stake
	}
	meterStart := st.ProgressMeter

	mode := &Mode{Free: sp.free, Stake: stake, Meter: st.ProgressMeter, Pins: st.StickyWilds}
	grid, err := e.src.Generate(mode.Free, stake, mode.Meter, mode.Pins)
	if err != nil {
		return nil, fmt.Errorf("generate grid: %w", err)
	}

	var rounds []model.RoundSnapshot
	observe := func(g *model.Grid) error {
		c := e.meter.Collect(g, stake, st.ProgressMeter)
		st.ProgressMeter = c.NewMeter
		pinned := e.bonus.Observe(&st, g, sp)

		mode.Meter = st.ProgressMeter
		mode.Pins = st.StickyWilds
		sum.ProgressCoins += c.Coins
		rounds = append(rounds, model.RoundSnapshot{
			Index:          len(rounds),
			Grid:           *g,
			ProgressTokens: c.Count,
			ProgressCoins:  c.Coins,
			PinnedWilds:    pinned,
		})
		return nil
	}

	if err := observe(&grid); err != nil {
		return nil, err
	}
	res, err := e.resolver.Resolve(grid, mode, observe)
	if err != nil {
		return nil, fmt.Errorf("resolve cascade: %w", err)
	}
	for i, r := range res.Rounds {
		rounds[i].Wins = r.Wins
		rounds[i].WinningCells = r.Removed
		rounds[i].Payout = r.Payout
	}

	sum.ClusterWin = res.TotalWin
	sum.TotalWin = sum.ClusterWin + sum.ProgressCoins
	st.Currency += sum.TotalWin
	sum.BonusTransition = e.bonus.Finish(&st, sp)
	sum.MeterDelta = st.ProgressMeter - meterStart
	sum.Unlocked = e.meter.Unlock(&st)
	sum.FreeSpin = sp.free

	final := res.Final
	st.LastGrid = &final

	return &model.SpinResult{Rounds: rounds, Summary: sum, State: st}, nil
}

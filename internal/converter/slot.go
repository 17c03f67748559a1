package converter

import (
	"time"

	dto "cluster_slots/internal/api/dto/slot"
	"cluster_slots/internal/model"
)

func ToSpinRequest(req dto.SpinRequest) model.SpinRequest {
	return model.SpinRequest{
		Stake: req.Stake,
	}
}

// ToSpinResponse maps a resolved spin; persistErr is the save error, if any.
func ToSpinResponse(res model.SpinResult, persistErr error) dto.SpinResponse {
	rounds := make([]dto.Round, len(res.Rounds))
	for i, r := range res.Rounds {
		rounds[i] = ToRound(r)
	}
	return dto.SpinResponse{
		Rounds:  rounds,
		Summary: ToSummary(res.Summary),
		State:   ToStateResponse(res.State, persistErr),
	}
}

func ToRound(r model.RoundSnapshot) dto.Round {
	wins := make([]dto.ClusterWin, len(r.Wins))
	for i, w := range r.Wins {
		wins[i] = dto.ClusterWin{
			Kind:           string(w.Kind),
			Size:           w.Size,
			Cells:          toCells(w.Cells),
			WildMultiplier: w.WildMultiplier,
			Payout:         w.Payout,
		}
	}
	return dto.Round{
		Index:          r.Index,
		Grid:           toGrid(&r.Grid),
		WinningCells:   toCells(r.WinningCells),
		Wins:           wins,
		Payout:         r.Payout,
		ProgressTokens: r.ProgressTokens,
		ProgressCoins:  r.ProgressCoins,
		PinnedWilds:    toStickyWilds(r.PinnedWilds),
	}
}

func ToSummary(s model.SpinSummary) dto.Summary {
	return dto.Summary{
		TotalWin:        s.TotalWin,
		ClusterWin:      s.ClusterWin,
		ProgressCoins:   s.ProgressCoins,
		MeterDelta:      s.MeterDelta,
		BonusTransition: string(s.BonusTransition),
		FreeSpin:        s.FreeSpin,
		StakeDeducted:   s.StakeDeducted,
		Unlocked:        s.Unlocked,
	}
}

func ToStateResponse(st model.SessionState, persistErr error) dto.StateResponse {
	out := dto.StateResponse{
		Currency:           st.Currency,
		Stake:              st.Stake,
		ProgressMeter:      st.ProgressMeter,
		UnlockedRewards:    append([]string{}, st.UnlockedRewards...),
		FreeSpinsRemaining: st.FreeSpinsRemaining,
		StickyWilds:        toStickyWilds(st.StickyWilds),
		Persisted:          persistErr == nil,
	}
	if out.StickyWilds == nil {
		out.StickyWilds = []dto.StickyWild{}
	}
	if st.LastGrid != nil {
		out.LastGrid = toGrid(st.LastGrid)
	}
	if !st.UpdatedAt.IsZero() {
		out.UpdatedAt = st.UpdatedAt.Format(time.RFC3339Nano)
	}
	if persistErr != nil {
		out.Warning = persistErr.Error()
	}
	return out
}

func ToStatsResponse(s model.RTPStats) dto.StatsResponse {
	return dto.StatsResponse{
		Spins:     s.Spins,
		FreeSpins: s.FreeSpins,
		Wagered:   s.Wagered,
		Returned:  s.Returned,
		RTP:       s.RTP,
		WindowRTP: s.WindowRTP,
		Window:    s.Window,
	}
}

func toGrid(g *model.Grid) [][]string {
	rows := make([][]string, model.GridHeight)
	for y := range rows {
		rows[y] = make([]string, model.GridWidth)
		for x := range rows[y] {
			rows[y][x] = string(g[y][x])
		}
	}
	return rows
}

func toCells(cells []model.Cell) []dto.Cell {
	out := make([]dto.Cell, len(cells))
	for i, c := range cells {
		out[i] = dto.Cell{X: c.X, Y: c.Y}
	}
	return out
}

func toStickyWilds(pins []model.StickyWild) []dto.StickyWild {
	if len(pins) == 0 {
		return nil
	}
	out := make([]dto.StickyWild, len(pins))
	for i, p := range pins {
		out[i] = dto.StickyWild{X: p.X, Y: p.Y, Kind: string(p.Kind)}
	}
	return out
}

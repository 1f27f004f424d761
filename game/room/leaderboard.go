package room

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	Level    int     `json:"level"`
	Time     float64 `json:"time"`
}

// Leaderboard ranks every player by level descending, then time ascending.
// Ties on both keep join order.
func (r *Room) Leaderboard() []LeaderboardEntry {
	entries := lo.Map(r.Players, func(p *Player, _ int) LeaderboardEntry {
		return LeaderboardEntry{PlayerID: p.ID, Name: p.Name, Level: p.Level, Time: p.Time}
	})

	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.Level, a.Level); c != 0 {
			return c
		}
		return cmp.Compare(a.Time, b.Time)
	})
	return entries
}

package handler

import (
	"math/rand"
	"strings"
	"time"
)

// SplitTeams 对报名成员做一次均匀洗牌，然后在 ⌈N/2⌉ 处切分：
// A 队拿前一半（含余数），B 队拿后一半。N=0 时两队皆空，
// N=1 时 A 队一人 B 队空。rng 为 nil 时使用时间种子。
func SplitTeams(members []string, rng *rand.Rand) (teamA, teamB []string) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	shuffled := make([]string, len(members))
	copy(shuffled, members)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := (len(shuffled) + 1) / 2
	return shuffled[:cut], shuffled[cut:]
}

func renderTeams(teamA, teamB []string) string {
	return "`Attacker`\n```" + strings.Join(teamA, "\n") + "```\n" +
		"`Defender`\n```" + strings.Join(teamB, "\n") + "```"
}

// Package auth 实现了基于 actor 白名单的授权检查。
package auth

// Gate 持有一组静态白名单。检查必须发生在特权操作执行之前，
// 拒绝即终止：调用方返回拒绝回复后不得再产生任何副作用。
type Gate struct {
	infra   map[string]bool
	boketsu map[string]bool
}

// NewGate 用配置里的白名单创建一个 Gate。
func NewGate(infraActors, boketsuActors []string) *Gate {
	return &Gate{
		infra:   toSet(infraActors),
		boketsu: toSet(boketsuActors),
	}
}

// IsInfraAuthorized 判断 actor 是否可以执行服务器生命周期操作
// （start/stop/restart/kill/send）。
func (g *Gate) IsInfraAuthorized(actor string) bool {
	return g.infra[actor]
}

// IsBoketsuAuthorized 判断 actor 是否可以增减他人的积分。
// 白名单为空时视为未启用限制。
func (g *Gate) IsBoketsuAuthorized(actor string) bool {
	if len(g.boketsu) == 0 {
		return true
	}
	return g.boketsu[actor]
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
	return set
}

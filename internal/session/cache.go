// Package session 实现了进程级的多轮对话缓存。
//
// 缓存只活在进程内存里：重启即丢失。对话上下文不是需要持久化的
// 资产，这是接受的行为而不是缺陷。每个 actor 的历史有上限，
// 超出后丢弃最旧的轮次。
package session

import "sync"

// Turn 是对话历史中的一轮消息。
type Turn struct {
	Role    string
	Content string
}

// Cache 是 actor → 对话历史的并发安全映射。
type Cache struct {
	mu       sync.Mutex
	maxTurns int
	sessions map[string][]Turn
}

// NewCache 创建一个会话缓存。maxTurns <= 0 时使用默认上限 40。
func NewCache(maxTurns int) *Cache {
	if maxTurns <= 0 {
		maxTurns = 40
	}
	return &Cache{
		maxTurns: maxTurns,
		sessions: make(map[string][]Turn),
	}
}

// Reset 用单轮历史替换 actor 的全部既有历史（chatgpt new）。
func (c *Cache) Reset(actor string, first Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[actor] = []Turn{first}
}

// Append 在 actor 的历史末尾追加一轮。历史不存在时先初始化为空
// 再追加（chatgpt reply 的幂等保证）。
func (c *Cache) Append(actor string, turn Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	history := c.sessions[actor]
	history = append(history, turn)
	if len(history) > c.maxTurns {
		history = history[len(history)-c.maxTurns:]
	}
	c.sessions[actor] = history
}

// Get 返回 actor 历史的副本，可能为空。副本避免调用方与后续
// 修改发生数据竞争。
func (c *Cache) Get(actor string) []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	history := c.sessions[actor]
	out := make([]Turn, len(history))
	copy(out, history)
	return out
}

// Len 返回当前持有历史的 actor 数量（运维状态接口用）。
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

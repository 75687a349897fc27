// Package action 实现了按钮 CustomID 的编解码。
// 状态全部编码进 ID 字符串本身，因此按钮点击无需任何服务端 UI 会话。
package action

import "strings"

// Tag 是 CustomID 第一段携带的操作标识。
type Tag string

// 固定的操作标识集合。Decode 对集合之外的输入返回 TagUnknown，
// 调度器将其路由到忽略分支而不是让整个事件失败。
const (
	TagUnknown           Tag = ""
	TagValorantSpread    Tag = "valorantspread"
	TagRefreshServerInfo Tag = "refreshstatusserver"
	TagRefreshNodeInfo   Tag = "refreshstatusnode"
	TagStartServer       Tag = "upserver"
	TagRestartServer     Tag = "restartserver"
	TagStopServer        Tag = "downserver"
	TagKillServer        Tag = "killserver"
	TagSendCommand       Tag = "sendcommand"
)

const delimiter = "-"

var knownTags = map[Tag]bool{
	TagValorantSpread:    true,
	TagRefreshServerInfo: true,
	TagRefreshNodeInfo:   true,
	TagStartServer:       true,
	TagRestartServer:     true,
	TagStopServer:        true,
	TagKillServer:        true,
	TagSendCommand:       true,
}

// Encode 把操作标识和参数连接成一个 CustomID。
// 参数内的分隔符会被转义，保证 Decode 能原样还原任意参数。
func Encode(tag Tag, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, string(tag))
	for _, a := range args {
		parts = append(parts, escape(a))
	}
	return strings.Join(parts, delimiter)
}

// Decode 解析一个 CustomID。对任意输入都不会失败：
// 第一段不在已知集合内时返回 TagUnknown 和空参数。
func Decode(s string) (Tag, []string) {
	segs := strings.Split(s, delimiter)
	tag := Tag(segs[0])
	if !knownTags[tag] {
		return TagUnknown, nil
	}
	args := make([]string, 0, len(segs)-1)
	for _, seg := range segs[1:] {
		args = append(args, unescape(seg))
	}
	return tag, args
}

// 转义规则：% 先替换为 %25，再把分隔符 - 替换为 %2D。
// 服务器/节点名通常不含分隔符，但合同上不依赖这一点。
func escape(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	return strings.ReplaceAll(s, delimiter, "%2D")
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, "%2D", delimiter)
	return strings.ReplaceAll(s, "%25", "%")
}

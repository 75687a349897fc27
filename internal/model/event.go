package model

// UserRef 是命令参数中引用的另一个用户。
type UserRef struct {
	ID   string
	Name string
}

// CommandEvent 是一次斜杠命令调用。参数类型在注册 schema 时已经声明，
// 网关层负责把平台类型映射成这里的 string/int64/float64/UserRef。
type CommandEvent struct {
	ActorID   string
	ActorName string
	Root      string
	Sub       string
	Options   map[string]interface{}
}

// StringOption 返回名为 name 的字符串参数。
func (e CommandEvent) StringOption(name string) (string, bool) {
	v, ok := e.Options[name].(string)
	return v, ok
}

// IntOption 返回名为 name 的整数参数。
func (e CommandEvent) IntOption(name string) (int64, bool) {
	v, ok := e.Options[name].(int64)
	return v, ok
}

// FloatOption 返回名为 name 的浮点参数。
func (e CommandEvent) FloatOption(name string) (float64, bool) {
	v, ok := e.Options[name].(float64)
	return v, ok
}

// UserOption 返回名为 name 的用户参数。
func (e CommandEvent) UserOption(name string) (UserRef, bool) {
	v, ok := e.Options[name].(UserRef)
	return v, ok
}

// ButtonEvent 是一次按钮点击。CustomID 由 action 包编解码，
// ChannelID/MessageID 用于回查消息上的反应（组队洗牌）。
type ButtonEvent struct {
	ActorID   string
	ActorName string
	CustomID  string
	ChannelID string
	MessageID string
}

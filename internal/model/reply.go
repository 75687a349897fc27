package model

// ButtonStyle 是交互按钮的视觉样式，网关层映射到平台枚举。
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota
	ButtonSuccess
	ButtonDanger
	ButtonLink
)

// Button 是回复里的一个交互元素。Link 样式使用 URL，其余使用 CustomID。
type Button struct {
	Label    string
	Style    ButtonStyle
	CustomID string
	URL      string
}

// EmbedField 是结构化展示块中的一个字段。
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed 是一个结构化展示块。
type Embed struct {
	Title       string
	Description string
	Color       int
	ImageURL    string
	Fields      []EmbedField
}

// Reply 是调度器产出的响应载体，由网关层渲染并发送。
// Ephemeral 为 true 时仅调用者可见。Update 为 true 时编辑原消息
// 而不是新建回复（信息面板的 Refresh 按钮）。
type Reply struct {
	Content   string
	Embeds    []Embed
	Rows      [][]Button
	Ephemeral bool
	Update    bool
	// ReactEmoji 非空时，网关在发出的消息上补一个反应（组队募集用）
	ReactEmoji string
}

// TextReply 构造一个纯文本回复。
func TextReply(content string) *Reply {
	return &Reply{Content: content}
}

// EphemeralReply 构造一个仅调用者可见的纯文本回复。
func EphemeralReply(content string) *Reply {
	return &Reply{Content: content, Ephemeral: true}
}

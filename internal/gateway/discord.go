// Package gateway 是 Discord 网关适配层：把平台事件映射为调度器的
// 事件类型，并把调度器产出的回复渲染回平台。业务语义全部在
// handler 层，这里只做双向翻译与连接生命周期管理。
package gateway

import (
	"context"
	"fmt"
	"time"

	"chihuyufan-go/internal/handler"
	"chihuyufan-go/internal/model"
	"chihuyufan-go/pkg/log"

	"github.com/bwmarrin/discordgo"
)

// Discord 持有网关连接与调度器。实现 handler.Gateway 接口。
type Discord struct {
	session *discordgo.Session
	h       *handler.InteractionHandler
	guildID string
}

// New 创建网关适配器。此时尚未建立连接，Open 才会登录。
// 调度器通过 Attach 在 Open 之前接入。
func New(token, guildID string) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	g := &Discord{session: session, guildID: guildID}
	session.AddHandler(g.onInteraction)
	return g, nil
}

// Attach 接入事件调度器。网关与调度器相互引用：调度器查询成员信息
// 要经由网关，网关收到事件要交给调度器，因此分两步接线。
func (g *Discord) Attach(h *handler.InteractionHandler) {
	g.h = h
}

// Open 登录网关并注册斜杠命令 schema。
func (g *Discord) Open() error {
	if g.h == nil {
		return fmt.Errorf("no handler attached")
	}
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	appID := g.session.State.User.ID
	// GuildID 为空时注册为全局命令
	if _, err := g.session.ApplicationCommandBulkOverwrite(appID, g.guildID, commandSchema()); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	log.Infof("logged in as %s", g.session.State.User.Username)
	return nil
}

// Close 断开网关连接。
func (g *Discord) Close() error {
	return g.session.Close()
}

// HeartbeatLatency 实现 handler.Gateway。
func (g *Discord) HeartbeatLatency() time.Duration {
	return g.session.HeartbeatLatency().Round(time.Millisecond)
}

// Reactors 实现 handler.Gateway：返回对指定消息按了 emoji 反应的
// 成员显示名（机器人自身除外）。
func (g *Discord) Reactors(ctx context.Context, channelID, messageID, emoji string) ([]string, error) {
	users, err := g.session.MessageReactions(channelID, messageID, emoji, 100, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list reactors: %w", err)
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		if u.ID == g.session.State.User.ID {
			continue
		}
		names = append(names, displayName(u))
	}
	return names, nil
}

// MemberName 实现 handler.Gateway：解析成员在服务器内的显示名。
func (g *Discord) MemberName(ctx context.Context, actorID string) (string, error) {
	if g.guildID != "" {
		member, err := g.session.GuildMember(g.guildID, actorID, discordgo.WithContext(ctx))
		if err == nil {
			if member.Nick != "" {
				return member.Nick, nil
			}
			return displayName(member.User), nil
		}
	}
	user, err := g.session.User(actorID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to resolve member %s: %w", actorID, err)
	}
	return displayName(user), nil
}

// onInteraction 是唯一的入站事件入口。discordgo 默认为每个事件
// 启一个 goroutine 调用 handler，事件之间天然并发。
func (g *Discord) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		g.onCommand(s, i)
	case discordgo.InteractionMessageComponent:
		g.onButton(s, i)
	}
}

func (g *Discord) onCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// 处理可能阻塞在后端调用上，先 ACK 再慢慢算
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Error("failed to ack command", err)
		return
	}

	reply := g.h.HandleCommand(context.Background(), commandEvent(s, i))
	g.deliver(s, i, reply)
}

func (g *Discord) onButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ev := model.ButtonEvent{
		ActorID:   actorOf(i).ID,
		ActorName: displayName(actorOf(i)),
		CustomID:  i.MessageComponentData().CustomID,
		ChannelID: i.ChannelID,
	}
	if i.Message != nil {
		ev.MessageID = i.Message.ID
	}

	reply := g.h.HandleButton(context.Background(), ev)
	if reply != nil && reply.Update {
		// 信息面板刷新：原地编辑消息而不是新建回复
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{Embeds: renderEmbeds(reply.Embeds)},
		}); err != nil {
			log.Error("failed to update message", err)
		}
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Error("failed to ack button", err)
		return
	}
	g.deliver(s, i, reply)
}

// deliver 把调度器的回复写回已 ACK 的交互。nil 回复（忽略分支）
// 撤掉占位的 thinking 消息。
func (g *Discord) deliver(s *discordgo.Session, i *discordgo.InteractionCreate, reply *model.Reply) {
	if reply == nil {
		_ = s.InteractionResponseDelete(i.Interaction)
		return
	}

	if reply.Ephemeral {
		// 占位已是公开回复，换成仅调用者可见的 followup
		_ = s.InteractionResponseDelete(i.Interaction)
		_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: reply.Content,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		if err != nil {
			log.Error("failed to send ephemeral reply", err)
		}
		return
	}

	msg, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &reply.Content,
		Embeds:     embedsPtr(reply.Embeds),
		Components: renderRows(reply.Rows),
	})
	if err != nil {
		log.Error("failed to edit response", err)
		return
	}
	if reply.ReactEmoji != "" && msg != nil {
		if err := s.MessageReactionAdd(msg.ChannelID, msg.ID, reply.ReactEmoji); err != nil {
			log.Error("failed to add reaction", err)
		}
	}
}

// commandEvent 把平台交互翻译为调度器的命令事件。
// 子命令的参数提升为事件的顶层参数。
func commandEvent(s *discordgo.Session, i *discordgo.InteractionCreate) model.CommandEvent {
	data := i.ApplicationCommandData()
	actor := actorOf(i)
	ev := model.CommandEvent{
		ActorID:   actor.ID,
		ActorName: displayName(actor),
		Root:      data.Name,
		Options:   map[string]interface{}{},
	}

	options := data.Options
	if len(options) == 1 && options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		ev.Sub = options[0].Name
		options = options[0].Options
	}

	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			ev.Options[opt.Name] = opt.StringValue()
		case discordgo.ApplicationCommandOptionInteger:
			ev.Options[opt.Name] = opt.IntValue()
		case discordgo.ApplicationCommandOptionNumber:
			ev.Options[opt.Name] = opt.FloatValue()
		case discordgo.ApplicationCommandOptionUser:
			user := opt.UserValue(s)
			ev.Options[opt.Name] = model.UserRef{ID: user.ID, Name: displayName(user)}
		}
	}
	return ev
}

func actorOf(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func displayName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func renderEmbeds(embeds []model.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		embed := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
			Timestamp:   time.Now().Format(time.RFC3339),
		}
		if e.ImageURL != "" {
			embed.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
		}
		for _, f := range e.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: f.Name, Value: f.Value, Inline: f.Inline,
			})
		}
		out = append(out, embed)
	}
	return out
}

func embedsPtr(embeds []model.Embed) *[]*discordgo.MessageEmbed {
	rendered := renderEmbeds(embeds)
	return &rendered
}

func renderRows(rows [][]model.Button) *[]discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		components := make([]discordgo.MessageComponent, 0, len(row))
		for _, b := range row {
			components = append(components, discordgo.Button{
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				CustomID: b.CustomID,
				URL:      b.URL,
			})
		}
		out = append(out, discordgo.ActionsRow{Components: components})
	}
	return &out
}

func buttonStyle(style model.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case model.ButtonSuccess:
		return discordgo.SuccessButton
	case model.ButtonDanger:
		return discordgo.DangerButton
	case model.ButtonLink:
		return discordgo.LinkButton
	default:
		return discordgo.PrimaryButton
	}
}

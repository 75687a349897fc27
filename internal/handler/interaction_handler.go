// Package handler 实现了交互调度器：把解码后的命令/按钮事件
// 路由到各业务组件，并产出响应载体。所有按事件发生的错误都在
// 这一层被转换为用户可见的回复，绝不让单个事件终止进程。
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chihuyufan-go/internal/auth"
	"chihuyufan-go/internal/errs"
	"chihuyufan-go/internal/model"
	"chihuyufan-go/internal/repository"
	"chihuyufan-go/internal/service"
	"chihuyufan-go/pkg/log"
	"chihuyufan-go/pkg/openai"

	"github.com/google/uuid"
)

// optInEmoji 是组队募集消息上用来报名的反应。
const optInEmoji = "✅"

// Gateway 是调度器对聊天平台网关的最小依赖：
// 回查消息反应（组队洗牌）、解析成员显示名（排行榜）、心跳延迟（ping）。
type Gateway interface {
	Reactors(ctx context.Context, channelID, messageID, emoji string) ([]string, error)
	MemberName(ctx context.Context, actorID string) (string, error)
	HeartbeatLatency() time.Duration
}

// Options 是调度器的静态参数。
type Options struct {
	PanelBaseURL string
	PanelTimeout time.Duration
	AITimeout    time.Duration
}

// InteractionHandler 是顶层状态机。自身不持有任何持久状态，
// 共享状态都在账本与会话缓存里，因此可以被任意多个事件并发调用。
type InteractionHandler struct {
	gate   *auth.Gate
	points repository.PointsRepository
	chat   service.ChatService
	panel  service.PanelService
	gw     Gateway
	opts   Options
}

// NewInteractionHandler 创建一个新的 InteractionHandler 实例。
func NewInteractionHandler(
	gate *auth.Gate,
	points repository.PointsRepository,
	chat service.ChatService,
	panel service.PanelService,
	gw Gateway,
	opts Options,
) *InteractionHandler {
	if opts.PanelTimeout <= 0 {
		opts.PanelTimeout = 15 * time.Second
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = 60 * time.Second
	}
	return &InteractionHandler{
		gate:   gate,
		points: points,
		chat:   chat,
		panel:  panel,
		gw:     gw,
		opts:   opts,
	}
}

// HandleCommand 处理一次斜杠命令调用。返回 nil 表示忽略该事件。
func (h *InteractionHandler) HandleCommand(ctx context.Context, ev model.CommandEvent) *model.Reply {
	requestID := uuid.NewString()
	log.Infow("command received",
		"request_id", requestID, "actor", ev.ActorID, "root", ev.Root, "sub", ev.Sub)

	switch ev.Root {
	case "ping":
		return model.TextReply("Avg. " + h.gw.HeartbeatLatency().String())
	case "valorant-spread":
		return h.spreadRecruit()
	case "youtube-thumbnail":
		return h.youtubeThumbnail(ev)
	case "pterodactyl":
		return h.pterodactylCommand(ctx, requestID, ev)
	case "chatgpt":
		return h.chatgptCommand(ctx, requestID, ev)
	case "boketsu":
		return h.boketsuCommand(ctx, requestID, ev)
	}
	// 未知命令：忽略分支，不让整个调度失败
	log.Warnw("unknown command root ignored", "request_id", requestID, "root", ev.Root)
	return nil
}

// spreadRecruit 发出募集消息：一个 Spread 按钮加一个报名用反应。
func (h *InteractionHandler) spreadRecruit() *model.Reply {
	return &model.Reply{
		Content: "カスタムに参加したい人はリアクションを押してください",
		Rows: [][]model.Button{{
			{Label: "Spread!", Style: model.ButtonPrimary, CustomID: spreadCustomID()},
		}},
		ReactEmoji: optInEmoji,
	}
}

func (h *InteractionHandler) youtubeThumbnail(ev model.CommandEvent) *model.Reply {
	target, _ := ev.StringOption("target")
	mode, _ := ev.StringOption("mode")
	return &model.Reply{
		Embeds: []model.Embed{{ImageURL: service.YouTubeThumbnailURL(target, mode)}},
	}
}

func (h *InteractionHandler) pterodactylCommand(ctx context.Context, requestID string, ev model.CommandEvent) *model.Reply {
	ctx, cancel := context.WithTimeout(ctx, h.opts.PanelTimeout)
	defer cancel()

	switch service.Operation(ev.Sub) {
	case service.OpServersList:
		out, err := h.panel.ListServers(ctx)
		if err != nil {
			return h.errorReply(requestID, "", err)
		}
		return model.TextReply(out)

	case service.OpNodeInfo:
		name, _ := ev.StringOption("name")
		overview, err := h.panel.NodeInfo(ctx, name)
		if err != nil {
			return h.errorReply(requestID, name, err)
		}
		return h.nodeInfoReply(overview, false)

	case service.OpServerInfo:
		name, _ := ev.StringOption("name")
		overview, err := h.panel.ServerInfo(ctx, name)
		if err != nil {
			return h.errorReply(requestID, name, err)
		}
		return h.serverInfoReply(overview, false)

	case service.OpStart, service.OpStop, service.OpRestart, service.OpKill:
		// 特权操作：先过授权门，拒绝即终止，绝不继续执行
		if !h.gate.IsInfraAuthorized(ev.ActorID) {
			log.Warnw("infra operation denied", "request_id", requestID, "actor", ev.ActorID, "op", ev.Sub)
			return model.EphemeralReply("You don't have permissions.")
		}
		name, _ := ev.StringOption("name")
		out, err := h.panel.Execute(ctx, service.Operation(ev.Sub), name, "")
		if err != nil {
			return h.errorReply(requestID, name, err)
		}
		return model.TextReply(out)

	case service.OpSendCommand:
		if !h.gate.IsInfraAuthorized(ev.ActorID) {
			log.Warnw("infra operation denied", "request_id", requestID, "actor", ev.ActorID, "op", ev.Sub)
			return model.EphemeralReply("You don't have permissions.")
		}
		name, _ := ev.StringOption("name")
		command, _ := ev.StringOption("command")
		out, err := h.panel.Execute(ctx, service.OpSendCommand, name, command)
		if err != nil {
			return h.errorReply(requestID, name, err)
		}
		return model.TextReply(out)

	case service.OpBackupsList:
		groups, err := h.panel.Backups(ctx)
		if err != nil {
			return h.errorReply(requestID, "", err)
		}
		return &model.Reply{Embeds: []model.Embed{backupsEmbed(groups)}}
	}
	return nil
}

func (h *InteractionHandler) chatgptCommand(ctx context.Context, requestID string, ev model.CommandEvent) *model.Reply {
	ctx, cancel := context.WithTimeout(ctx, h.opts.AITimeout)
	defer cancel()

	switch ev.Sub {
	case "new":
		text, _ := ev.StringOption("text")
		answer, err := h.chat.NewSession(ctx, ev.ActorID, text, generationParams(ev))
		if err != nil {
			return h.errorReply(requestID, "", err)
		}
		return model.TextReply(answer)

	case "reply":
		text, _ := ev.StringOption("text")
		answer, err := h.chat.Reply(ctx, ev.ActorID, text, generationParams(ev))
		if err != nil {
			return h.errorReply(requestID, "", err)
		}
		return model.TextReply(answer)

	case "image":
		words, _ := ev.StringOption("words")
		url, err := h.chat.Image(ctx, words)
		if err != nil {
			return h.errorReply(requestID, "", err)
		}
		return &model.Reply{Embeds: []model.Embed{{ImageURL: url}}}

	case "models":
		models, err := h.chat.Models(ctx)
		if err != nil {
			return h.errorReply(requestID, "", err)
		}
		return model.EphemeralReply(
			"使用可能なモデルの一覧はこちらです\n```" + strings.Join(models, "\n") + "```")
	}
	return nil
}

func (h *InteractionHandler) boketsuCommand(ctx context.Context, requestID string, ev model.CommandEvent) *model.Reply {
	switch ev.Sub {
	case "add", "remove":
		// 积分增减同样是特权操作：拒绝即终止，账本不发生任何变更
		if !h.gate.IsBoketsuAuthorized(ev.ActorID) {
			log.Warnw("boketsu mutation denied", "request_id", requestID, "actor", ev.ActorID)
			return model.EphemeralReply("貴様、ボケツではないな・・・")
		}
		target, _ := ev.UserOption("user")
		amount, _ := ev.IntOption("point")
		delta := amount
		if ev.Sub == "remove" {
			delta = -amount
		}
		if _, err := h.points.ApplyDelta(ctx, target.ID, delta); err != nil {
			return h.errorReply(requestID, "", err)
		}
		if ev.Sub == "add" {
			return model.TextReply(fmt.Sprintf("%sに**%dボケツポイント**を追加", target.Name, amount))
		}
		return model.TextReply(fmt.Sprintf("%sから**%dボケツポイント**を没収", target.Name, amount))

	case "stats":
		target, _ := ev.UserOption("user")
		record, err := h.points.FindOrCreate(ctx, target.ID)
		if err != nil {
			return h.errorReply(requestID, "", err)
		}
		return model.TextReply(fmt.Sprintf("%sは**%dボケツポイント**を所有しています", target.Name, record.Point))

	case "ranking":
		ranked, err := h.points.TopRanked(ctx, 20, true)
		if err != nil {
			return h.errorReply(requestID, "", err)
		}
		lines := make([]string, 0, len(ranked))
		for i, record := range ranked {
			name, err := h.gw.MemberName(ctx, record.ActorID)
			if err != nil {
				name = record.ActorID
			}
			lines = append(lines, fmt.Sprintf("%d. %s (%dpt)", i+1, name, record.Point))
		}
		return model.TextReply(strings.Join(lines, "\n"))
	}
	return nil
}

// generationParams 从命令参数提取可选的生成参数；全缺省时返回 nil。
func generationParams(ev model.CommandEvent) *openai.GenerationParams {
	var gp openai.GenerationParams
	set := false
	if m, ok := ev.StringOption("model"); ok && m != "" {
		gp.Model = m
		set = true
	}
	if temp, ok := ev.FloatOption("temperature"); ok {
		gp.Temperature = &temp
		set = true
	}
	if maxTokens, ok := ev.IntOption("max_tokens"); ok {
		v := int(maxTokens)
		gp.MaxTokens = &v
		set = true
	}
	if !set {
		return nil
	}
	return &gp
}

// errorReply 把分类错误转换为用户可见的回复。target 非空时用于
// 未找到类错误的提示文本。账本错误按更高级别记日志。
func (h *InteractionHandler) errorReply(requestID, target string, err error) *model.Reply {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		log.Infow("target not found", "request_id", requestID, "target", target)
		if target != "" {
			return model.TextReply(fmt.Sprintf("`%s` was not found.", target))
		}
		return model.TextReply("Not found.")
	case errors.Is(err, errs.ErrLedger):
		log.Errorw("ledger failure", "request_id", requestID, "error", err)
		return model.TextReply("A database error occurred. Please try again later.")
	case errors.Is(err, errs.ErrOperation):
		log.Warnw("backend operation failed", "request_id", requestID, "error", err)
		return model.TextReply("Operation failed: " + strings.TrimPrefix(err.Error(), errs.ErrOperation.Error()+": "))
	default:
		log.Errorw("unexpected failure", "request_id", requestID, "error", err)
		return model.TextReply("Something went wrong. Please try again later.")
	}
}

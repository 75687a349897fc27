package handler

import (
	"context"

	"chihuyufan-go/internal/action"
	"chihuyufan-go/internal/model"
	"chihuyufan-go/internal/service"
	"chihuyufan-go/pkg/log"

	"github.com/google/uuid"
)

func spreadCustomID() string {
	return action.Encode(action.TagValorantSpread)
}

// HandleButton 处理一次按钮点击。按钮携带的全部状态都编码在
// CustomID 里，点击到达时按标识重新解析目标，无需服务端 UI 会话。
// 返回 nil 表示忽略（未知标识）。
func (h *InteractionHandler) HandleButton(ctx context.Context, ev model.ButtonEvent) *model.Reply {
	requestID := uuid.NewString()
	tag, args := action.Decode(ev.CustomID)
	log.Infow("button received",
		"request_id", requestID, "actor", ev.ActorID, "custom_id", ev.CustomID)

	switch tag {
	case action.TagValorantSpread:
		return h.spreadTeams(ctx, requestID, ev)

	case action.TagRefreshServerInfo:
		return h.refreshServerInfo(ctx, requestID, firstArg(args))

	case action.TagRefreshNodeInfo:
		return h.refreshNodeInfo(ctx, requestID, firstArg(args))

	case action.TagStartServer, action.TagRestartServer, action.TagStopServer, action.TagKillServer:
		return h.lifecycleButton(ctx, requestID, ev, tag, firstArg(args), "")

	case action.TagSendCommand:
		extra := ""
		if len(args) > 1 {
			extra = args[1]
		}
		return h.lifecycleButton(ctx, requestID, ev, tag, firstArg(args), extra)
	}

	log.Warnw("unknown button ignored", "request_id", requestID, "custom_id", ev.CustomID)
	return nil
}

// spreadTeams 收集报名反应里的成员，洗牌后均分为两队。
func (h *InteractionHandler) spreadTeams(ctx context.Context, requestID string, ev model.ButtonEvent) *model.Reply {
	members, err := h.gw.Reactors(ctx, ev.ChannelID, ev.MessageID, optInEmoji)
	if err != nil {
		return h.errorReply(requestID, "", err)
	}
	teamA, teamB := SplitTeams(members, nil)
	return model.TextReply(renderTeams(teamA, teamB))
}

func (h *InteractionHandler) refreshServerInfo(ctx context.Context, requestID, name string) *model.Reply {
	ctx, cancel := context.WithTimeout(ctx, h.opts.PanelTimeout)
	defer cancel()
	overview, err := h.panel.ServerInfo(ctx, name)
	if err != nil {
		return h.errorReply(requestID, name, err)
	}
	return h.serverInfoReply(overview, true)
}

func (h *InteractionHandler) refreshNodeInfo(ctx context.Context, requestID, name string) *model.Reply {
	ctx, cancel := context.WithTimeout(ctx, h.opts.PanelTimeout)
	defer cancel()
	overview, err := h.panel.NodeInfo(ctx, name)
	if err != nil {
		return h.errorReply(requestID, name, err)
	}
	return h.nodeInfoReply(overview, true)
}

// lifecycleButton 执行按钮触发的生命周期操作。与命令路径同一条
// 授权规则：拒绝即终止，不再触达面板。
func (h *InteractionHandler) lifecycleButton(ctx context.Context, requestID string, ev model.ButtonEvent, tag action.Tag, name, extra string) *model.Reply {
	if !h.gate.IsInfraAuthorized(ev.ActorID) {
		log.Warnw("infra button denied", "request_id", requestID, "actor", ev.ActorID, "custom_id", ev.CustomID)
		return model.EphemeralReply("You don't have permissions.")
	}

	ctx, cancel := context.WithTimeout(ctx, h.opts.PanelTimeout)
	defer cancel()
	out, err := h.panel.Execute(ctx, operationForTag(tag), name, extra)
	if err != nil {
		return h.errorReply(requestID, name, err)
	}
	return model.TextReply(out)
}

func operationForTag(tag action.Tag) service.Operation {
	switch tag {
	case action.TagStartServer:
		return service.OpStart
	case action.TagRestartServer:
		return service.OpRestart
	case action.TagStopServer:
		return service.OpStop
	case action.TagKillServer:
		return service.OpKill
	case action.TagSendCommand:
		return service.OpSendCommand
	}
	return ""
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

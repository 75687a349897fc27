package handler

import (
	"fmt"
	"strings"
	"time"

	"chihuyufan-go/internal/action"
	"chihuyufan-go/internal/model"
	"chihuyufan-go/internal/service"
)

// serverInfoReply 组装 serverinfo 面板：状态 embed、操作按钮行
// 和指向面板 Web 界面的链接按钮。update 为 true 时编辑原消息。
func (h *InteractionHandler) serverInfoReply(o *service.ServerOverview, update bool) *model.Reply {
	reply := &model.Reply{
		Embeds: []model.Embed{serverInfoEmbed(o)},
		Update: update,
	}
	if update {
		// Refresh 只替换 embed，按钮行随原消息保留
		return reply
	}
	name := o.Server.Name
	reply.Rows = [][]model.Button{
		{
			{Label: "Refresh", Style: model.ButtonPrimary, CustomID: action.Encode(action.TagRefreshServerInfo, name)},
			{Label: "Start", Style: model.ButtonSuccess, CustomID: action.Encode(action.TagStartServer, name)},
			{Label: "Restart", Style: model.ButtonSuccess, CustomID: action.Encode(action.TagRestartServer, name)},
			{Label: "Stop", Style: model.ButtonDanger, CustomID: action.Encode(action.TagStopServer, name)},
			{Label: "Kill", Style: model.ButtonDanger, CustomID: action.Encode(action.TagKillServer, name)},
		},
		{
			{Label: "Console", Style: model.ButtonLink, URL: fmt.Sprintf("%s/server/%s", h.opts.PanelBaseURL, o.Server.Identifier)},
			{Label: "Manage", Style: model.ButtonLink, URL: fmt.Sprintf("%s/admin/servers/view/%d", h.opts.PanelBaseURL, o.Server.InternalID)},
		},
	}
	return reply
}

func (h *InteractionHandler) nodeInfoReply(o *service.NodeOverview, update bool) *model.Reply {
	reply := &model.Reply{
		Embeds: []model.Embed{nodeInfoEmbed(o)},
		Update: update,
	}
	if !update {
		reply.Rows = [][]model.Button{{
			{Label: "Refresh", Style: model.ButtonPrimary, CustomID: action.Encode(action.TagRefreshNodeInfo, o.Node.Name)},
		}}
	}
	return reply
}

func serverInfoEmbed(o *service.ServerOverview) model.Embed {
	return model.Embed{
		Title:       o.Server.Name,
		Description: o.Server.Description,
		Color:       0x64C8FF,
		Fields: []model.EmbedField{
			{Name: "State", Value: fmt.Sprintf("%s %s", service.StateEmoji(o.Util.State), o.Util.State), Inline: true},
			{Name: "Node", Value: o.Node.Name, Inline: true},
			{Name: "Uptime", Value: formatUptime(o.Util.UptimeMS), Inline: true},
			{Name: "CPU", Value: fmt.Sprintf("%.1f%% / %d%%", o.Util.CPUAbsolute, o.App.Limits.CPU), Inline: true},
			{Name: "Memory", Value: fmt.Sprintf("%s / %d MiB", formatMiB(o.Util.MemoryBytes), o.App.Limits.MemoryMB), Inline: true},
			{Name: "Disk", Value: fmt.Sprintf("%s / %d MiB", formatMiB(o.Util.DiskBytes), o.App.Limits.DiskMB), Inline: true},
		},
	}
}

func nodeInfoEmbed(o *service.NodeOverview) model.Embed {
	embed := model.Embed{
		Title:       o.Node.Name,
		Description: o.Node.FQDN,
		Color:       0x64C8FF,
		Fields: []model.EmbedField{
			{Name: "Memory", Value: fmt.Sprintf("%d MiB", o.Node.MemoryMB), Inline: true},
			{Name: "Disk", Value: fmt.Sprintf("%d MiB", o.Node.DiskMB), Inline: true},
		},
	}
	if len(o.Servers) == 0 {
		embed.Fields = append(embed.Fields, model.EmbedField{Name: "Servers", Value: "(none)"})
		return embed
	}
	lines := make([]string, 0, len(o.Servers))
	for _, s := range o.Servers {
		lines = append(lines, fmt.Sprintf("%s `%s`", service.StateEmoji(s.Util.State), s.Name))
	}
	embed.Fields = append(embed.Fields, model.EmbedField{Name: "Servers", Value: strings.Join(lines, "\n")})
	return embed
}

// backupsEmbed 按服务器分组展示备份。没有任何备份时给出明确的
// 提示而不是空白 embed。
func backupsEmbed(groups []service.BackupGroup) model.Embed {
	embed := model.Embed{
		Title: "Backup List",
		Color: 0x64FF64,
	}
	if len(groups) == 0 {
		embed.Description = "No backups found."
		return embed
	}
	for _, group := range groups {
		lines := make([]string, 0, len(group.Backups))
		for _, b := range group.Backups {
			lines = append(lines, fmt.Sprintf("%s | %.2fGB", b.Name, float64(b.Bytes)/1024/1024/1024))
		}
		embed.Fields = append(embed.Fields, model.EmbedField{
			Name:  group.ServerName,
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}

func formatUptime(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return (time.Duration(ms) * time.Millisecond).Truncate(time.Second).String()
}

func formatMiB(bytes int64) string {
	return fmt.Sprintf("%.1f MiB", float64(bytes)/1024/1024)
}

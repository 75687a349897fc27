// Package service 包含了机器人的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"strings"

	"chihuyufan-go/internal/errs"
	"chihuyufan-go/pkg/ptero"
)

// Operation 是对托管服务器/节点可执行的固定操作集合。
// 取值与斜杠命令的子命令名一致。
type Operation string

const (
	OpServersList Operation = "servers"
	OpNodeInfo    Operation = "nodeinfo"
	OpServerInfo  Operation = "serverinfo"
	OpStart       Operation = "up"
	OpStop        Operation = "down"
	OpRestart     Operation = "restart"
	OpKill        Operation = "kill"
	OpSendCommand Operation = "send"
	OpBackupsList Operation = "backups"
)

// NodeOverview 是 nodeinfo 面板需要的聚合读结果。
type NodeOverview struct {
	Node    ptero.Node
	Servers []ServerUtilization
}

// ServerUtilization 是节点上一台服务器的名字和状态快照。
type ServerUtilization struct {
	Name string
	Util *ptero.Utilization
}

// ServerOverview 是 serverinfo 面板需要的聚合读结果。
type ServerOverview struct {
	Server ptero.ClientServer
	App    ptero.AppServer
	Node   ptero.Node
	Util   *ptero.Utilization
}

// BackupGroup 是一台服务器的备份集合，只保留非空组。
type BackupGroup struct {
	ServerName string
	Backups    []ptero.Backup
}

// PanelService 定义了面板生命周期操作与聚合读查询。
// 所有后端调用同步往返、不重试，失败立即以分类错误上浮。
type PanelService interface {
	ListServers(ctx context.Context) (string, error)
	NodeInfo(ctx context.Context, name string) (*NodeOverview, error)
	ServerInfo(ctx context.Context, name string) (*ServerOverview, error)
	Backups(ctx context.Context) ([]BackupGroup, error)
	// Execute 执行 up/down/restart/kill/send。extra 仅 send 使用（原始命令文本）。
	Execute(ctx context.Context, op Operation, target, extra string) (string, error)
}

type panelService struct {
	client ptero.ClientAPI
	app    ptero.ApplicationAPI
}

// NewPanelService 创建一个新的 PanelService 实例。
func NewPanelService(client ptero.ClientAPI, app ptero.ApplicationAPI) PanelService {
	return &panelService{client: client, app: app}
}

// ListServers 返回全部服务器的单行状态列表。空结果返回明确的提示文本。
func (s *panelService) ListServers(ctx context.Context) (string, error) {
	servers, err := s.client.Servers(ctx)
	if err != nil {
		return "", errs.Operation("%v", err)
	}
	if len(servers) == 0 {
		return "No servers found.", nil
	}
	lines := make([]string, 0, len(servers))
	for _, server := range servers {
		util, err := s.client.Utilization(ctx, server.Identifier)
		if err != nil {
			return "", errs.Operation("%v", err)
		}
		lines = append(lines, fmt.Sprintf("%s `%s`: `%s`", StateEmoji(util.State), server.Description, server.Name))
	}
	return strings.Join(lines, "\n"), nil
}

// NodeInfo 解析节点名并聚合节点上各服务器的状态。
// 任一中间步骤结果为空时立即中止并报告未找到，绝不索引空结果。
func (s *panelService) NodeInfo(ctx context.Context, name string) (*NodeOverview, error) {
	nodes, err := s.app.NodesByName(ctx, name)
	if err != nil {
		return nil, errs.Operation("%v", err)
	}
	if len(nodes) == 0 {
		return nil, errs.NotFound("node %q", name)
	}
	node := nodes[0]

	servers, err := s.client.Servers(ctx)
	if err != nil {
		return nil, errs.Operation("%v", err)
	}
	overview := &NodeOverview{Node: node}
	for _, server := range servers {
		if server.Node != node.Name {
			continue
		}
		util, err := s.client.Utilization(ctx, server.Identifier)
		if err != nil {
			return nil, errs.Operation("%v", err)
		}
		overview.Servers = append(overview.Servers, ServerUtilization{Name: server.Name, Util: util})
	}
	return overview, nil
}

// ServerInfo 解析服务器名并执行 节点→节点内服务器→状态 的多段读流水线。
func (s *panelService) ServerInfo(ctx context.Context, name string) (*ServerOverview, error) {
	server, err := s.resolveServer(ctx, name)
	if err != nil {
		return nil, err
	}

	nodes, err := s.app.NodesByName(ctx, server.Node)
	if err != nil {
		return nil, errs.Operation("%v", err)
	}
	if len(nodes) == 0 {
		return nil, errs.NotFound("node %q", server.Node)
	}
	node := nodes[0]

	appServers, err := s.app.ServersByNode(ctx, node.ID)
	if err != nil {
		return nil, errs.Operation("%v", err)
	}
	var appServer *ptero.AppServer
	for i := range appServers {
		if appServers[i].Identifier == server.Identifier {
			appServer = &appServers[i]
			break
		}
	}
	if appServer == nil {
		return nil, errs.NotFound("server %q on node %q", server.Name, node.Name)
	}

	util, err := s.client.Utilization(ctx, server.Identifier)
	if err != nil {
		return nil, errs.Operation("%v", err)
	}

	return &ServerOverview{Server: *server, App: *appServer, Node: node, Util: util}, nil
}

// Backups 按服务器分组列出全部备份，跳过没有备份的服务器。
func (s *panelService) Backups(ctx context.Context) ([]BackupGroup, error) {
	servers, err := s.app.Servers(ctx)
	if err != nil {
		return nil, errs.Operation("%v", err)
	}
	var groups []BackupGroup
	for _, server := range servers {
		backups, err := s.client.Backups(ctx, server.Identifier)
		if err != nil {
			return nil, errs.Operation("%v", err)
		}
		if len(backups) == 0 {
			continue
		}
		groups = append(groups, BackupGroup{ServerName: server.Name, Backups: backups})
	}
	return groups, nil
}

// Execute 解析目标并执行生命周期操作。成功返回固定的确认文本，
// 后端拒绝（已处于该状态、面板不可达等）原样带出后端消息。
func (s *panelService) Execute(ctx context.Context, op Operation, target, extra string) (string, error) {
	server, err := s.resolveServer(ctx, target)
	if err != nil {
		return "", err
	}

	switch op {
	case OpStart, OpStop, OpRestart, OpKill:
		signal := signalFor(op)
		if err := s.client.SendSignal(ctx, server.Identifier, signal); err != nil {
			return "", errs.Operation("%v", err)
		}
		return fmt.Sprintf("Sent %s signal to `%s`", signal, server.Name), nil
	case OpSendCommand:
		if err := s.client.SendCommand(ctx, server.Identifier, extra); err != nil {
			return "", errs.Operation("%v", err)
		}
		return fmt.Sprintf("Sent command to `%s`: `%s`", server.Name, extra), nil
	default:
		return "", errs.Operation("unsupported operation %q", op)
	}
}

// resolveServer 按名称（不区分大小写的精确匹配）解析出一台服务器。
// 多个同名时取面板列出顺序的第一个，这是文档化的确定性策略。
func (s *panelService) resolveServer(ctx context.Context, name string) (*ptero.ClientServer, error) {
	servers, err := s.client.Servers(ctx)
	if err != nil {
		return nil, errs.Operation("%v", err)
	}
	for i := range servers {
		if strings.EqualFold(servers[i].Name, name) {
			return &servers[i], nil
		}
	}
	return nil, errs.NotFound("server %q", name)
}

func signalFor(op Operation) string {
	switch op {
	case OpStart:
		return ptero.SignalStart
	case OpStop:
		return ptero.SignalStop
	case OpRestart:
		return ptero.SignalRestart
	case OpKill:
		return ptero.SignalKill
	}
	return ""
}

// StateEmoji 把运行状态映射为列表里的色块/箭头。
func StateEmoji(state ptero.UtilizationState) string {
	switch state {
	case ptero.StateStarting:
		return "⬆️"
	case ptero.StateStopping:
		return "⬇️"
	case ptero.StateRunning:
		return "🟩"
	default:
		return "🟥"
	}
}

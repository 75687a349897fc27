package service

import (
	"context"
	"errors"
	"testing"

	"chihuyufan-go/internal/errs"
	"chihuyufan-go/pkg/ptero"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClientAPI 记录调用并返回预置数据，替代真实面板。
type fakeClientAPI struct {
	servers      []ptero.ClientServer
	serversErr   error
	utils        map[string]*ptero.Utilization
	backups      map[string][]ptero.Backup
	signals      []string
	commands     []string
	signalErr    error
	signalTarget string
}

func (f *fakeClientAPI) Servers(ctx context.Context) ([]ptero.ClientServer, error) {
	return f.servers, f.serversErr
}

func (f *fakeClientAPI) Utilization(ctx context.Context, identifier string) (*ptero.Utilization, error) {
	util, ok := f.utils[identifier]
	if !ok {
		return nil, errors.New("unknown identifier")
	}
	return util, nil
}

func (f *fakeClientAPI) SendSignal(ctx context.Context, identifier, signal string) error {
	if f.signalErr != nil {
		return f.signalErr
	}
	f.signalTarget = identifier
	f.signals = append(f.signals, signal)
	return nil
}

func (f *fakeClientAPI) SendCommand(ctx context.Context, identifier, command string) error {
	f.commands = append(f.commands, command)
	return nil
}

func (f *fakeClientAPI) Backups(ctx context.Context, identifier string) ([]ptero.Backup, error) {
	return f.backups[identifier], nil
}

type fakeApplicationAPI struct {
	nodes      []ptero.Node
	appServers []ptero.AppServer
}

func (f *fakeApplicationAPI) NodesByName(ctx context.Context, name string) ([]ptero.Node, error) {
	var matched []ptero.Node
	for _, n := range f.nodes {
		if n.Name == name {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func (f *fakeApplicationAPI) Servers(ctx context.Context) ([]ptero.AppServer, error) {
	return f.appServers, nil
}

func (f *fakeApplicationAPI) ServersByNode(ctx context.Context, nodeID int64) ([]ptero.AppServer, error) {
	var matched []ptero.AppServer
	for _, s := range f.appServers {
		if s.NodeID == nodeID {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

func testPanel() (*fakeClientAPI, *fakeApplicationAPI, PanelService) {
	client := &fakeClientAPI{
		servers: []ptero.ClientServer{
			{Identifier: "aaaa1111", Name: "lobby", Description: "main lobby", Node: "node-1"},
			{Identifier: "bbbb2222", Name: "survival", Description: "smp", Node: "node-1"},
		},
		utils: map[string]*ptero.Utilization{
			"aaaa1111": {State: ptero.StateRunning, MemoryBytes: 1 << 30},
			"bbbb2222": {State: ptero.StateOffline},
		},
	}
	app := &fakeApplicationAPI{
		nodes: []ptero.Node{{ID: 1, Name: "node-1", FQDN: "node1.example.com", MemoryMB: 16384, DiskMB: 512000}},
		appServers: []ptero.AppServer{
			{ID: 10, Identifier: "aaaa1111", Name: "lobby", NodeID: 1, Limits: ptero.Limits{MemoryMB: 2048, DiskMB: 10240, CPU: 200}},
			{ID: 11, Identifier: "bbbb2222", Name: "survival", NodeID: 1},
		},
	}
	return client, app, NewPanelService(client, app)
}

func TestExecuteSendsSignalToResolvedServer(t *testing.T) {
	t.Parallel()

	client, _, svc := testPanel()
	msg, err := svc.Execute(context.Background(), OpStart, "lobby", "")
	require.NoError(t, err)
	assert.Equal(t, "Sent start signal to `lobby`", msg)
	assert.Equal(t, []string{ptero.SignalStart}, client.signals)
	assert.Equal(t, "aaaa1111", client.signalTarget)
}

func TestExecuteTargetNotFound(t *testing.T) {
	t.Parallel()

	client, _, svc := testPanel()
	_, err := svc.Execute(context.Background(), OpKill, "missing", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	// 未解析到目标时不得发出任何信号
	assert.Empty(t, client.signals)
}

func TestExecuteResolvesCaseInsensitively(t *testing.T) {
	t.Parallel()

	client, _, svc := testPanel()
	_, err := svc.Execute(context.Background(), OpStop, "LOBBY", "")
	require.NoError(t, err)
	assert.Equal(t, "aaaa1111", client.signalTarget)
}

func TestExecuteBackendFailureSurfacesOperationError(t *testing.T) {
	t.Parallel()

	client, _, svc := testPanel()
	client.signalErr = errors.New("server is already running")
	_, err := svc.Execute(context.Background(), OpRestart, "lobby", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrOperation)
	assert.Contains(t, err.Error(), "already running")
}

func TestExecuteSendCommandForwardsVerbatim(t *testing.T) {
	t.Parallel()

	client, _, svc := testPanel()
	msg, err := svc.Execute(context.Background(), OpSendCommand, "survival", "say hello world")
	require.NoError(t, err)
	assert.Contains(t, msg, "say hello world")
	assert.Equal(t, []string{"say hello world"}, client.commands)
}

func TestListServersFormatsStateEmoji(t *testing.T) {
	t.Parallel()

	_, _, svc := testPanel()
	out, err := svc.ListServers(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "🟩 `main lobby`: `lobby`")
	assert.Contains(t, out, "🟥 `smp`: `survival`")
}

func TestListServersEmpty(t *testing.T) {
	t.Parallel()

	client, app, _ := testPanel()
	client.servers = nil
	svc := NewPanelService(client, app)
	out, err := svc.ListServers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No servers found.", out)
}

func TestNodeInfoAggregatesServers(t *testing.T) {
	t.Parallel()

	_, _, svc := testPanel()
	overview, err := svc.NodeInfo(context.Background(), "node-1")
	require.NoError(t, err)
	assert.Equal(t, "node-1", overview.Node.Name)
	require.Len(t, overview.Servers, 2)
	assert.Equal(t, ptero.StateRunning, overview.Servers[0].Util.State)
}

func TestNodeInfoUnknownNode(t *testing.T) {
	t.Parallel()

	_, _, svc := testPanel()
	_, err := svc.NodeInfo(context.Background(), "node-9")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestServerInfoPipeline(t *testing.T) {
	t.Parallel()

	_, _, svc := testPanel()
	overview, err := svc.ServerInfo(context.Background(), "lobby")
	require.NoError(t, err)
	assert.Equal(t, "lobby", overview.Server.Name)
	assert.Equal(t, int64(10), overview.App.ID)
	assert.Equal(t, "node-1", overview.Node.Name)
	assert.Equal(t, ptero.StateRunning, overview.Util.State)
}

func TestServerInfoAbortsOnEmptyPipelineStep(t *testing.T) {
	t.Parallel()

	client, app, _ := testPanel()
	// 节点查询返回空：流水线必须中止为未找到，而不是索引空结果
	app.nodes = nil
	svc := NewPanelService(client, app)
	_, err := svc.ServerInfo(context.Background(), "lobby")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBackupsSkipsEmptyGroups(t *testing.T) {
	t.Parallel()

	client, app, _ := testPanel()
	client.backups = map[string][]ptero.Backup{
		"aaaa1111": {{Name: "nightly", Bytes: 3 << 30}},
	}
	svc := NewPanelService(client, app)
	groups, err := svc.Backups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "lobby", groups[0].ServerName)
}

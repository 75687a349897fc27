package ptero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ApplicationAPI 定义了面板 Application API 上本机器人用到的操作。
type ApplicationAPI interface {
	NodesByName(ctx context.Context, name string) ([]Node, error)
	Servers(ctx context.Context) ([]AppServer, error)
	ServersByNode(ctx context.Context, nodeID int64) ([]AppServer, error)
}

type application struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewApplication 创建一个 Application API 客户端。
func NewApplication(baseURL, token string, timeout time.Duration) ApplicationAPI {
	return &application{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// NodesByName 按名称过滤节点。返回顺序即面板列出的顺序。
func (a *application) NodesByName(ctx context.Context, name string) ([]Node, error) {
	var envelope listEnvelope
	path := "/api/application/nodes?filter[name]=" + url.QueryEscape(name)
	if err := a.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var n Node
		if err := json.Unmarshal(item.Attributes, &n); err != nil {
			return nil, fmt.Errorf("解析节点属性失败: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Servers 返回面板上全部服务器的管理视图。
func (a *application) Servers(ctx context.Context) ([]AppServer, error) {
	var envelope listEnvelope
	if err := a.do(ctx, http.MethodGet, "/api/application/servers", nil, &envelope); err != nil {
		return nil, err
	}
	servers := make([]AppServer, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var s AppServer
		if err := json.Unmarshal(item.Attributes, &s); err != nil {
			return nil, fmt.Errorf("解析服务器属性失败: %w", err)
		}
		servers = append(servers, s)
	}
	return servers, nil
}

// ServersByNode 返回指定节点上的服务器。
// Application API 没有按节点过滤的端点，这里取全量后本地筛选。
func (a *application) ServersByNode(ctx context.Context, nodeID int64) ([]AppServer, error) {
	all, err := a.Servers(ctx)
	if err != nil {
		return nil, err
	}
	var matched []AppServer
	for _, s := range all {
		if s.NodeID == nodeID {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

func (a *application) do(ctx context.Context, method, path string, body, out interface{}) error {
	return doRequest(ctx, a.http, a.baseURL, a.token, method, path, body, out)
}

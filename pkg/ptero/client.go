package ptero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientAPI 定义了面板 Client API 上本机器人用到的操作。
// 所有调用都是同步往返，失败不重试，超时由 http.Client 限定。
type ClientAPI interface {
	Servers(ctx context.Context) ([]ClientServer, error)
	Utilization(ctx context.Context, identifier string) (*Utilization, error)
	SendSignal(ctx context.Context, identifier, signal string) error
	SendCommand(ctx context.Context, identifier, command string) error
	Backups(ctx context.Context, identifier string) ([]Backup, error)
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient 创建一个 Client API 客户端。
func NewClient(baseURL, token string, timeout time.Duration) ClientAPI {
	return &client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// 面板列表响应的通用外壳：{"data": [{"attributes": {...}}]}
type listEnvelope struct {
	Data []struct {
		Attributes json.RawMessage `json:"attributes"`
	} `json:"data"`
}

// Servers 返回该令牌可见的全部服务器。
func (c *client) Servers(ctx context.Context) ([]ClientServer, error) {
	var envelope listEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/client", nil, &envelope); err != nil {
		return nil, err
	}
	servers := make([]ClientServer, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var s ClientServer
		if err := json.Unmarshal(item.Attributes, &s); err != nil {
			return nil, fmt.Errorf("解析服务器属性失败: %w", err)
		}
		servers = append(servers, s)
	}
	return servers, nil
}

// Utilization 返回一台服务器的当前状态与资源占用。
func (c *client) Utilization(ctx context.Context, identifier string) (*Utilization, error) {
	var resp struct {
		Attributes struct {
			CurrentState string `json:"current_state"`
			Resources    struct {
				MemoryBytes    int64   `json:"memory_bytes"`
				DiskBytes      int64   `json:"disk_bytes"`
				CPUAbsolute    float64 `json:"cpu_absolute"`
				UptimeMillisec int64   `json:"uptime"`
			} `json:"resources"`
		} `json:"attributes"`
	}
	path := fmt.Sprintf("/api/client/servers/%s/resources", identifier)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &Utilization{
		State:       UtilizationState(resp.Attributes.CurrentState),
		MemoryBytes: resp.Attributes.Resources.MemoryBytes,
		DiskBytes:   resp.Attributes.Resources.DiskBytes,
		CPUAbsolute: resp.Attributes.Resources.CPUAbsolute,
		UptimeMS:    resp.Attributes.Resources.UptimeMillisec,
	}, nil
}

// SendSignal 向服务器发送电源信号（start/stop/restart/kill）。
func (c *client) SendSignal(ctx context.Context, identifier, signal string) error {
	path := fmt.Sprintf("/api/client/servers/%s/power", identifier)
	return c.do(ctx, http.MethodPost, path, map[string]string{"signal": signal}, nil)
}

// SendCommand 把一条控制台命令原样转发给服务器。
// 命令内容不做本地校验，接受与否由面板决定。
func (c *client) SendCommand(ctx context.Context, identifier, command string) error {
	path := fmt.Sprintf("/api/client/servers/%s/command", identifier)
	return c.do(ctx, http.MethodPost, path, map[string]string{"command": command}, nil)
}

// Backups 返回一台服务器的备份列表。
func (c *client) Backups(ctx context.Context, identifier string) ([]Backup, error) {
	var envelope listEnvelope
	path := fmt.Sprintf("/api/client/servers/%s/backups", identifier)
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	backups := make([]Backup, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var b Backup
		if err := json.Unmarshal(item.Attributes, &b); err != nil {
			return nil, fmt.Errorf("解析备份属性失败: %w", err)
		}
		backups = append(backups, b)
	}
	return backups, nil
}

func (c *client) do(ctx context.Context, method, path string, body, out interface{}) error {
	return doRequest(ctx, c.http, c.baseURL, c.token, method, path, body, out)
}

// doRequest 是 Client API 与 Application API 共用的请求辅助函数。
func doRequest(ctx context.Context, hc *http.Client, baseURL, token, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("编码请求体失败: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("调用面板失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("面板返回错误 [%d]: %s", resp.StatusCode, string(detail))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("解析面板响应失败: %w", err)
		}
	}
	return nil
}

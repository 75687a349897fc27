// Package ptero 提供了一个与 Pterodactyl 面板交互的客户端。
// Client API（用户令牌）负责服务器列表、状态与电源信号，
// Application API（应用令牌）负责节点与服务器的管理视图。
package ptero

// UtilizationState 是服务器的运行状态。
type UtilizationState string

const (
	StateStarting UtilizationState = "starting"
	StateStopping UtilizationState = "stopping"
	StateRunning  UtilizationState = "running"
	StateOffline  UtilizationState = "offline"
)

// 电源信号，POST /power 的合法取值。
const (
	SignalStart   = "start"
	SignalStop    = "stop"
	SignalRestart = "restart"
	SignalKill    = "kill"
)

// ClientServer 是 Client API 视角下的一台服务器。
type ClientServer struct {
	Identifier  string `json:"identifier"`
	InternalID  int64  `json:"internal_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Node        string `json:"node"`
}

// Utilization 是一台服务器的资源占用快照。
type Utilization struct {
	State       UtilizationState
	MemoryBytes int64
	DiskBytes   int64
	CPUAbsolute float64
	UptimeMS    int64
}

// Backup 是一份服务器备份。
type Backup struct {
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}

// Node 是 Application API 视角下的一个节点。
type Node struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FQDN     string `json:"fqdn"`
	MemoryMB int64  `json:"memory"`
	DiskMB   int64  `json:"disk"`
}

// AppServer 是 Application API 视角下的一台服务器。
type AppServer struct {
	ID          int64  `json:"id"`
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	Description string `json:"description"`
	NodeID      int64  `json:"node"`
	Limits      Limits `json:"limits"`
}

// Limits 是一台服务器的资源配额。
type Limits struct {
	MemoryMB int64 `json:"memory"`
	DiskMB   int64 `json:"disk"`
	CPU      int64 `json:"cpu"`
}

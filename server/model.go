package server

import "github.com/chaos-io/cutout/matte"

// RemoveResponse format=json 时的响应
type RemoveResponse struct {
	Success bool        `json:"success"`
	Source  string      `json:"source"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Empty   bool        `json:"empty"`
	Cached  bool        `json:"cached"`
	Stats   matte.Stats `json:"stats"`
	// Image base64 编码的 PNG
	Image []byte `json:"image"`
}

type ModelStatus struct {
	Enabled bool `json:"enabled"`
	Loaded  bool `json:"loaded"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

package util

import "github.com/segmentio/ksuid"

// NewID 按时间有序的唯一 ID，用于请求 ID 和输出文件名
func NewID() string {
	return ksuid.New().String()
}

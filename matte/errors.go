package matte

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSegmentationUnavailable 外部分割模型加载或推理失败
	ErrSegmentationUnavailable = errors.New("segmentation unavailable")
	// ErrMaskSize 掩码尺寸与图像不一致
	ErrMaskSize = errors.New("mask size does not match image")
)

// DecodeError 输入缓冲区为空或无法解码，整个调用直接失败
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode error: %s: %v", e.Reason, e.Err)
	}
	return "decode error: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ExhaustedError 所有掩码来源都失败
type ExhaustedError struct {
	Attempts []string
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all mask sources failed (%s): %v", strings.Join(e.Attempts, ", "), e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

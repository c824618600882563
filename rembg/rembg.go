// Package rembg 封装外部的抠图能力：远程整图去背景服务，以及可加载的分割模型
package rembg

import (
	"context"
	"errors"
)

var (
	// ErrRemoteStatus 远程服务返回非 2xx 或响应格式不对
	ErrRemoteStatus = errors.New("remote background removal failed")
	// ErrModelNotLoaded 模型未加载或已释放
	ErrModelNotLoaded = errors.New("segmentation model not loaded")
)

// Remover 整图去背景，输入原始图片字节，返回带透明通道的图片字节
type Remover interface {
	Remove(ctx context.Context, data []byte) ([]byte, error)
}

// NopRemover 未配置远程服务时使用，总是失败以触发本地回退
type NopRemover struct{}

func (NopRemover) Remove(context.Context, []byte) ([]byte, error) {
	return nil, errors.New("remote background removal disabled")
}

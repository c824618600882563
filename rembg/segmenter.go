package rembg

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chaos-io/cutout/codec"
	"github.com/chaos-io/cutout/matte"
	nhttp "github.com/chaos-io/cutout/util/http"
)

// HTTPSegmenter 通过 HTTP 调用部署好的分割模型（如 BiRefNet），响应为黑白或带 alpha 的掩码图
type HTTPSegmenter struct {
	url     string
	timeout time.Duration
	cli     nhttp.IClient
}

func NewHTTPSegmenter(url string, timeout time.Duration, cli nhttp.IClient) *HTTPSegmenter {
	if cli == nil {
		cli = nhttp.NewHTTPClient()
	}
	return &HTTPSegmenter{url: url, timeout: timeout, cli: cli}
}

// HTTPLoader 加载即健康检查：healthURL 返回 2xx 视为模型可用
func HTTPLoader(url, healthURL string, timeout time.Duration) Loader {
	return func(ctx context.Context) (Segmenter, error) {
		cli := nhttp.NewHTTPClient()
		if healthURL != "" {
			err := cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
				RequestURI: healthURL,
				Method:     http.MethodGet,
				Timeout:    timeout,
			})
			if err != nil {
				return nil, fmt.Errorf("health check: %w", err)
			}
		}
		return NewHTTPSegmenter(url, timeout, cli), nil
	}
}

func (s *HTTPSegmenter) Segment(ctx context.Context, buf *matte.PixelBuffer) (*matte.BinaryMask, error) {
	data, err := codec.EncodePNG(buf)
	if err != nil {
		return nil, err
	}
	body, contentType, err := multipartImage(data)
	if err != nil {
		return nil, err
	}

	var out []byte
	err = s.cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: s.url,
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": contentType},
		Body:       body,
		Response:   &out,
		Timeout:    s.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return codec.DecodeMask(out, buf.Width, buf.Height)
}

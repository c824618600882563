package rembg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/chaos-io/cutout/util"
	nhttp "github.com/chaos-io/cutout/util/http"
	"go.uber.org/zap"
)

// RemoteRemover 把原图和尺寸提示以 multipart 上传到远程去背景服务
//
//	curl -X POST "$BASE_URL/api/remove" \
//	  -F "image=@my_image.png" \
//	  -F "size=1024"
//
// 成功时响应体就是处理后的 RGBA 图片
type RemoteRemover struct {
	url      string
	sizeHint int
	timeout  time.Duration
	cli      nhttp.IClient
}

func NewRemoteRemover(url string, sizeHint int, timeout time.Duration) *RemoteRemover {
	return &RemoteRemover{
		url:      url,
		sizeHint: sizeHint,
		timeout:  timeout,
		cli:      nhttp.NewHTTPClient(),
	}
}

// WithClient 替换 HTTP 客户端，测试用
func (r *RemoteRemover) WithClient(cli nhttp.IClient) *RemoteRemover {
	r.cli = cli
	return r
}

func (r *RemoteRemover) Remove(ctx context.Context, data []byte) ([]byte, error) {
	defer util.Trace("remote remove")()

	body, contentType, err := multipartImage(data, [2]string{"size", strconv.Itoa(r.sizeHint)})
	if err != nil {
		return nil, err
	}

	var out []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: r.url,
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": contentType},
		Body:       body,
		Response:   &out,
		Timeout:    r.timeout,
	}
	if err := r.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteStatus, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrRemoteStatus)
	}

	util.Logger.Debug("remote remover responded", zap.Int("bytes", len(out)))
	return out, nil
}

func multipartImage(data []byte, fields ...[2]string) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "image")
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("copy form file: %w", err)
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

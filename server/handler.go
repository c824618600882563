package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/chaos-io/cutout/compose"
	"github.com/chaos-io/cutout/config"
	"github.com/chaos-io/cutout/cutout"
	"github.com/chaos-io/cutout/matte"
	"github.com/chaos-io/cutout/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	cfg     *config.Config
	service *cutout.Service
}

func NewHandler(cfg *config.Config, service *cutout.Service) *Handler {
	return &Handler{cfg: cfg, service: service}
}

// Remove 处理图片上传并返回去背景后的 PNG
func (h *Handler) Remove(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "missing image file", Error: err.Error()})
		return
	}
	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: fmt.Sprintf("file exceeds limit (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return
	}
	if !h.isAllowedType(file.Header.Get("Content-Type")) {
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{Message: "unsupported file type"})
		return
	}

	// 颜色在处理前校验，非法值不会触碰任何像素
	bg, err := compose.ParseColor(c.PostForm("background"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid background color", Error: err.Error()})
		return
	}

	data, err := readFormFile(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "failed to read image", Error: err.Error()})
		return
	}

	req := &cutout.Request{
		Data:        data,
		Background:  bg,
		Trim:        c.DefaultPostForm("trim", "false") == "true",
		TrimPadding: atoiDefault(c.PostForm("padding"), 0),
		Force:       c.DefaultPostForm("force", "false") == "true",
	}
	if maskFile, err := c.FormFile("mask"); err == nil {
		if req.Mask, err = readFormFile(maskFile); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "failed to read mask", Error: err.Error()})
			return
		}
	}

	resp, err := h.service.Process(c.Request.Context(), req)
	if err != nil {
		var decodeErr *matte.DecodeError
		if errors.As(err, &decodeErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "failed to decode image", Error: err.Error()})
			return
		}
		util.Logger.Error("failed to process image", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "failed to process image", Error: err.Error()})
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, RemoveResponse{
			Success: true,
			Source:  resp.Source,
			Width:   resp.Width,
			Height:  resp.Height,
			Empty:   resp.Empty,
			Cached:  resp.Cached,
			Stats:   resp.Stats,
			Image:   resp.PNG,
		})
		return
	}

	c.Header("X-Cutout-Source", resp.Source)
	c.Header("X-Cutout-Empty", strconv.FormatBool(resp.Empty))
	c.Data(http.StatusOK, "image/png", resp.PNG)
}

// ModelStatus 分割模型是否可用
func (h *Handler) ModelStatus(c *gin.Context) {
	m := h.service.Model()
	c.JSON(http.StatusOK, ModelStatus{Enabled: m != nil, Loaded: m != nil && m.Loaded()})
}

// ReloadModel 手动重新加载分割模型
func (h *Handler) ReloadModel(c *gin.Context) {
	m := h.service.Model()
	if m == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "segmentation model not configured"})
		return
	}
	if err := m.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Message: "model reload failed", Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ModelStatus{Enabled: true, Loaded: true})
}

func (h *Handler) isAllowedType(contentType string) bool {
	if contentType == "" {
		return true
	}
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(f)
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

// Package codec 负责字节与 PixelBuffer 之间的转换，抠图流水线只接触原始像素数组
package codec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/chaos-io/cutout/matte"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	BackendStd     = "std"
	BackendImaging = "imaging"
)

type Decoder interface {
	// Decode 返回像素缓冲区和格式名，空数据或无法解码返回 *matte.DecodeError
	Decode(data []byte) (*matte.PixelBuffer, string, error)
}

type Encoder interface {
	Encode(w io.Writer, buf *matte.PixelBuffer) error
}

type Codec interface {
	Decoder
	Encoder
	Name() string
}

// New 按名字选择解码后端，空名字为 std
func New(name string) (Codec, error) {
	switch name {
	case "", BackendStd:
		return NewStdCodec(), nil
	case BackendImaging:
		return NewImagingCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec backend %q", name)
	}
}

// StdCodec 标准库 + x/image 注册的解码器
type StdCodec struct {
	pngEncoder *png.Encoder
}

func NewStdCodec() *StdCodec {
	return &StdCodec{pngEncoder: &png.Encoder{CompressionLevel: png.DefaultCompression}}
}

func (c *StdCodec) Name() string {
	return BackendStd
}

func (c *StdCodec) Decode(data []byte) (*matte.PixelBuffer, string, error) {
	if len(data) == 0 {
		return nil, "", &matte.DecodeError{Reason: "empty input"}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &matte.DecodeError{Reason: "unsupported or corrupt image", Err: err}
	}
	return toBuffer(img, format)
}

func (c *StdCodec) Encode(w io.Writer, buf *matte.PixelBuffer) error {
	return encodePNG(c.pngEncoder, w, buf)
}

// ImagingCodec 解码时按 EXIF 方向自动旋转，手机照片走这个后端
type ImagingCodec struct {
	pngEncoder *png.Encoder
}

func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{pngEncoder: &png.Encoder{CompressionLevel: png.BestSpeed}}
}

func (c *ImagingCodec) Name() string {
	return BackendImaging
}

func (c *ImagingCodec) Decode(data []byte) (*matte.PixelBuffer, string, error) {
	if len(data) == 0 {
		return nil, "", &matte.DecodeError{Reason: "empty input"}
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", &matte.DecodeError{Reason: "unsupported or corrupt image", Err: err}
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", &matte.DecodeError{Reason: "unsupported or corrupt image", Err: err}
	}
	return toBuffer(img, format)
}

func (c *ImagingCodec) Encode(w io.Writer, buf *matte.PixelBuffer) error {
	return encodePNG(c.pngEncoder, w, buf)
}

func toBuffer(img image.Image, format string) (*matte.PixelBuffer, string, error) {
	buf := matte.FromImage(img)
	if err := buf.Validate(); err != nil {
		return nil, "", err
	}
	return buf, format, nil
}

func encodePNG(enc *png.Encoder, w io.Writer, buf *matte.PixelBuffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := enc.Encode(w, buf.NRGBA()); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}

// EncodePNG 便捷函数，返回 PNG 字节
func EncodePNG(buf *matte.PixelBuffer) ([]byte, error) {
	var out bytes.Buffer
	if err := NewStdCodec().Encode(&out, buf); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

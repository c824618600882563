package compose

import (
	"testing"

	"github.com/chaos-io/cutout/matte"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		want    Background
		wantErr bool
	}{
		{name: "空字符串为透明", spec: "", want: Transparent},
		{name: "transparent", spec: " Transparent ", want: Transparent},
		{name: "none", spec: "none", want: Transparent},
		{name: "颜色名", spec: "white", want: Background{Opaque: true, Color: matte.Color{R: 255, G: 255, B: 255}}},
		{name: "大写颜色名", spec: "GREY", want: Background{Opaque: true, Color: matte.Color{R: 128, G: 128, B: 128}}},
		{name: "六位十六进制", spec: "#1e90ff", want: Background{Opaque: true, Color: matte.Color{R: 30, G: 144, B: 255}}},
		{name: "省略井号", spec: "ff0000", want: Background{Opaque: true, Color: matte.Color{R: 255}}},
		{name: "三位简写", spec: "#0f0", want: Background{Opaque: true, Color: matte.Color{G: 255}}},
		{name: "非法字符", spec: "#gg0000", wantErr: true},
		{name: "长度不对", spec: "#12345", wantErr: true},
		{name: "未知颜色名", spec: "chartreuse-ish", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseColor(tt.spec)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColorSpec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBackground_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "transparent", Transparent.String())
	bg, err := ParseColor("#1e90ff")
	require.NoError(t, err)
	assert.Equal(t, "#1e90ff", bg.String())
}

func TestOver(t *testing.T) {
	t.Parallel()

	buf := matte.NewPixelBuffer(3, 1)
	copy(buf.Pix, []uint8{
		255, 0, 0, 255, // 不透明红
		255, 0, 0, 0, // 全透明
		200, 100, 0, 128, // 半透明
	})

	white := Background{Opaque: true, Color: matte.Color{R: 255, G: 255, B: 255}}
	out := Over(buf, white)

	assert.Equal(t, []uint8{255, 0, 0, 255}, out.Pix[0:4])
	assert.Equal(t, []uint8{255, 255, 255, 255}, out.Pix[4:8])
	// 200*0.502 + 255*0.498 ≈ 227，100*0.502 + 255*0.498 ≈ 177，0 + 255*0.498 ≈ 127
	assert.Equal(t, []uint8{227, 177, 127, 255}, out.Pix[8:12])

	// 输入不变
	assert.Equal(t, uint8(0), buf.Pix[7])
}

func TestOver_Transparent(t *testing.T) {
	t.Parallel()

	buf := matte.NewPixelBuffer(2, 2)
	buf.Pix[0] = 9
	out := Over(buf, Transparent)
	assert.Equal(t, buf.Pix, out.Pix)
	assert.NotSame(t, buf, out)
}

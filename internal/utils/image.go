package utils

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

// ProbeImageSize 读取图片头部取宽高，用于尺寸过滤。
// 解析不了的内容返回 0,0，不算错误，尺寸过滤对其不生效。
func ProbeImageSize(r io.Reader) (width, height int) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

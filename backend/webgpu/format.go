// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

type pixelOrder uint8

const (
	orderBGRA pixelOrder = iota
	orderRGBA
)

// formatPreference lists formats CPU pixels can be copied into, best first.
var formatPreference = []wgpu.TextureFormat{
	wgpu.TextureFormatBGRA8Unorm,
	wgpu.TextureFormatRGBA8Unorm,
	wgpu.TextureFormatBGRA8UnormSrgb,
	wgpu.TextureFormatRGBA8UnormSrgb,
}

// preferredFormat picks the first supported format from formatPreference,
// or the surface's own first choice.
func preferredFormat(supported []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formatPreference {
		for _, s := range supported {
			if f == s {
				return f
			}
		}
	}
	if len(supported) == 0 {
		return wgpu.TextureFormatUndefined
	}
	return supported[0]
}

func byteOrder(f wgpu.TextureFormat) (pixelOrder, bool) {
	switch f {
	case wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb:
		return orderBGRA, true
	case wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb:
		return orderRGBA, true
	default:
		return 0, false
	}
}

func toGPUFormat(f wgpu.TextureFormat) gputypes.TextureFormat {
	switch f {
	case wgpu.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case wgpu.TextureFormatBGRA8UnormSrgb:
		return gputypes.TextureFormatBGRA8UnormSrgb
	case wgpu.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case wgpu.TextureFormatRGBA8UnormSrgb:
		return gputypes.TextureFormatRGBA8UnormSrgb
	default:
		return gputypes.TextureFormatUndefined
	}
}

func fromGPUFormat(f gputypes.TextureFormat) (wgpu.TextureFormat, bool) {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm, true
	case gputypes.TextureFormatBGRA8UnormSrgb:
		return wgpu.TextureFormatBGRA8UnormSrgb, true
	case gputypes.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm, true
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return wgpu.TextureFormatRGBA8UnormSrgb, true
	default:
		return wgpu.TextureFormatUndefined, false
	}
}

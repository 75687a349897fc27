package service

import (
	"fmt"
	"strings"
)

// YouTubeThumbnailURL 根据视频 ID 或各种形式的链接构造缩略图地址。
// mode 是缩略图档位（default/hqdefault/mqdefault/sddefault/maxresdefault）。
func YouTubeThumbnailURL(target, mode string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", extractYouTubeID(target), mode)
}

// extractYouTubeID 从裸 ID、watch 链接、youtu.be 短链或 shorts 链接里取出视频 ID。
// 识别不了的输入原样返回，交给图片端点兜底。
func extractYouTubeID(target string) string {
	if !strings.Contains(target, "https://") {
		return target
	}
	switch {
	case strings.Contains(target, "youtu.be"):
		return cutBetween(target, "be/")
	case strings.Contains(target, "v="):
		return cutBetween(target, "v=")
	case strings.Contains(target, "shorts"):
		return cutBetween(target, "shorts/")
	}
	return target
}

// cutBetween 取 marker 之后、首个 & 之前的子串。
func cutBetween(s, marker string) string {
	if idx := strings.Index(s, marker); idx >= 0 {
		s = s[idx+len(marker):]
	}
	if idx := strings.IndexByte(s, '&'); idx >= 0 {
		s = s[:idx]
	}
	return s
}

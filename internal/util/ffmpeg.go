package util

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MediaInfo 音视频元数据
type MediaInfo struct {
	Duration float64 `json:"duration"` // 秒
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// FFmpegAvailable 检查本机是否安装 ffprobe
func FFmpegAvailable() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// ProbeMedia 使用 ffprobe 读取时长与分辨率
func ProbeMedia(mediaPath string) (*MediaInfo, error) {
	if _, err := os.Stat(mediaPath); err != nil {
		return nil, fmt.Errorf("媒体文件不存在: %w", err)
	}

	raw, err := ffmpeg.Probe(mediaPath)
	if err != nil {
		return nil, fmt.Errorf("获取媒体信息失败: %w", err)
	}
	return parseProbe(raw)
}

func parseProbe(raw string) (*MediaInfo, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("解析媒体信息失败: %w", err)
	}

	info := &MediaInfo{}
	for _, stream := range out.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}
	if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	return info, nil
}

// ExtractThumbnail 截取视频指定秒数处的一帧作为缩略图
func ExtractThumbnail(videoPath, thumbnailPath string, offsetSeconds float64) error {
	if err := os.MkdirAll(filepath.Dir(thumbnailPath), 0755); err != nil {
		return fmt.Errorf("创建缩略图目录失败: %w", err)
	}

	return ffmpeg.Input(videoPath, ffmpeg.KwArgs{
		"ss": strconv.FormatFloat(offsetSeconds, 'f', 2, 64),
	}).
		Output(thumbnailPath, ffmpeg.KwArgs{
			"vframes": "1",
			"q:v":     "2",
		}).
		OverWriteOutput().
		Run()
}

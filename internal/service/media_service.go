package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// MediaService 主题媒体上传
type MediaService struct {
	Store        ObjectStore
	TopicRepo    *repository.TopicRepository
	ResourceRepo *repository.TopicResourceRepository
	Cache        *CatalogCache
	TempDir      string
}

func NewMediaService(
	store ObjectStore,
	topicRepo *repository.TopicRepository,
	resourceRepo *repository.TopicResourceRepository,
	cache *CatalogCache,
) *MediaService {
	return &MediaService{
		Store:        store,
		TopicRepo:    topicRepo,
		ResourceRepo: resourceRepo,
		Cache:        cache,
		TempDir:      os.TempDir(),
	}
}

type MediaInput struct {
	Title       string `form:"title" binding:"required,max=200"`
	MediaType   string `form:"mediaType"`
	Description string `form:"description"`
	ContentID   *uint  `form:"contentId"`
	Order       int    `form:"order"`
}

func validMediaType(t string) bool {
	switch t {
	case model.MediaImage, model.MediaVideo, model.MediaAnimation, model.MediaDiagram, model.MediaAudio:
		return true
	}
	return false
}

// mediaTypeFor 未指定类型时按 MIME 推断
func mediaTypeFor(mimeType string) string {
	switch {
	case util.IsVideo(mimeType):
		return model.MediaVideo
	case util.IsAudio(mimeType):
		return model.MediaAudio
	case mimeType == "image/gif":
		return model.MediaAnimation
	default:
		return model.MediaImage
	}
}

// Upload 校验并保存媒体文件，视频会提取时长和缩略图
func (s *MediaService) Upload(ctx context.Context, topicID uint, in *MediaInput, header *multipart.FileHeader) (*model.TopicMedia, error) {
	if _, err := s.TopicRepo.FindByID(topicID); err != nil {
		return nil, notFound(err, util.ErrTopicNotFound)
	}
	if in.MediaType != "" && !validMediaType(in.MediaType) {
		return nil, invalidf("unknown media type %q", in.MediaType)
	}
	if header.Size > util.MaxUploadSize {
		return nil, invalidf("file exceeds %d MB", util.MaxUploadSize>>20)
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, util.AllowedMediaMimeTypes)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = mediaTypeFor(mimeType)
	}

	media := &model.TopicMedia{
		TopicID:     topicID,
		ContentID:   in.ContentID,
		MediaType:   mediaType,
		Title:       in.Title,
		Description: in.Description,
		Order:       in.Order,
	}

	key := util.NewUploadName(fmt.Sprintf("topics/%d", topicID), header.Filename)
	if util.IsVideo(mimeType) {
		err = s.storeVideo(ctx, media, key, file, mimeType)
	} else {
		media.FileURL, err = s.Store.Put(ctx, key, file, header.Size, mimeType)
	}
	if err != nil {
		return nil, err
	}

	if err := s.ResourceRepo.Create(media); err != nil {
		if rmErr := s.Store.Remove(ctx, key); rmErr != nil {
			logger.Log.Warn("remove orphaned media failed", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, err
	}
	s.Cache.Invalidate(ctx)
	return media, nil
}

// storeVideo 视频先落到临时文件供 ffprobe 读取
func (s *MediaService) storeVideo(ctx context.Context, media *model.TopicMedia, key string, src io.Reader, mimeType string) error {
	tmp, err := os.CreateTemp(s.TempDir, "upload-*"+path.Ext(key))
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if media.FileURL, err = s.Store.PutFile(ctx, key, tmpPath, mimeType); err != nil {
		return err
	}

	if !util.FFmpegAvailable() {
		logger.Log.Debug("ffprobe not installed, skip video metadata", zap.String("key", key))
		return nil
	}

	info, err := util.ProbeMedia(tmpPath)
	if err != nil {
		logger.Log.Warn("probe video failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	media.DurationSeconds = info.Duration

	thumbPath := strings.TrimSuffix(tmpPath, filepath.Ext(tmpPath)) + ".jpg"
	defer os.Remove(thumbPath)
	offset := 1.0
	if info.Duration > 0 && info.Duration < 2 {
		offset = 0
	}
	if err := util.ExtractThumbnail(tmpPath, thumbPath, offset); err != nil {
		logger.Log.Warn("extract thumbnail failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	thumbKey := strings.TrimSuffix(key, path.Ext(key)) + "_thumb.jpg"
	if media.ThumbnailURL, err = s.Store.PutFile(ctx, thumbKey, thumbPath, "image/jpeg"); err != nil {
		logger.Log.Warn("store thumbnail failed", zap.String("key", thumbKey), zap.Error(err))
	}
	return nil
}

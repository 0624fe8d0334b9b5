package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimeAudio       = "audio/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

// MaxUploadSize 媒体上传大小上限（字节）
const MaxUploadSize = 200 << 20

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedMediaMimeTypes  = []string{MimeImage, MimeVideo, MimeAudio}
)

const (
	FeaturedTopicCount     = 6
	RecentNotificationSize = 10
	RecommendedTopicLimit  = 10
	DashboardRecentSize    = 5
	FavoriteTopicCount     = 3
	SearchResultLimit      = 20
)

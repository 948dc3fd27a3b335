package repository

import (
	"context"
	"time"

	"chat_relay_service/pkg/database"
)

// MediaRepository definition 媒體物件的存取
type MediaRepository interface {
	// ResolveURL 以 object key 換取限時下載連結
	ResolveURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	// Exists 確認物件存在並回傳大小
	Exists(ctx context.Context, objectKey string) (int64, error)
}

type minioMediaRepository struct {
	client *database.MinIOClient
}

// NewMinioMediaRepository create media repository
func NewMinioMediaRepository(client *database.MinIOClient) MediaRepository {
	return &minioMediaRepository{client: client}
}

// ResolveURL presign get url
func (r *minioMediaRepository) ResolveURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return r.client.PresignGetURL(ctx, objectKey, expiry)
}

// Exists stat object
func (r *minioMediaRepository) Exists(ctx context.Context, objectKey string) (int64, error) {
	info, err := r.client.StatObject(ctx, objectKey)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

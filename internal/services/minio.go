package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"toytopia_back_end/internal/database"

	"github.com/minio/minio-go/v7"
)

// UploadAvatar envoie la photo de profil dans MinIO et retourne son URL publique
func UploadAvatar(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	ext := filepath.Ext(header.Filename)
	objectName := fmt.Sprintf("avatars/%s-%d%s", userID, time.Now().UnixNano(), ext)
	bucket := os.Getenv("MINIO_BUCKET")

	_, err := database.MinIO.PutObject(ctx, bucket, objectName, file, header.Size,
		minio.PutObjectOptions{ContentType: header.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return url, nil
}

// PresignedAvatarURL génère une URL de lecture temporaire (bucket privé)
func PresignedAvatarURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	u, err := database.MinIO.PresignedGetObject(ctx, os.Getenv("MINIO_BUCKET"), objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/config"
	"github.com/syntherra/PooDough/internal/media/sniffer"
	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/repository"
	"github.com/syntherra/PooDough/internal/storage"
)

const maxAvatarBytes = 5 << 20

var ErrAvatarTooLarge = fmt.Errorf("avatar exceeds %d bytes", maxAvatarBytes)

// AvatarService validates an uploaded profile picture, stores it in the
// avatar bucket and records the public URL on the profile. The object key is
// derived from the user id, so re-uploading replaces the old picture.
type AvatarService struct {
	users *repository.UserRepository
	store *storage.ObjectStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAvatarService(users *repository.UserRepository, store *storage.ObjectStore, cfg *config.AppConfig, log zerolog.Logger) *AvatarService {
	return &AvatarService{
		users: users,
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

func (s *AvatarService) Upload(ctx context.Context, user models.User, file multipart.File, header *multipart.FileHeader) (string, error) {
	if user.ID == "" {
		return "", ErrNotSignedIn
	}
	if file == nil || header == nil {
		return "", errors.New("invalid file payload")
	}
	if header.Size > maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("empty file")
	}
	if len(data) > maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil {
		return "", fmt.Errorf("detect type: %w", err)
	}

	declared := sniffer.MimeTypeFromHTTP(http.Header(header.Header))
	if declared != "" && declared != result.MIME {
		return "", fmt.Errorf("content type mismatch: declared %s, actual %s", declared, result.MIME)
	}

	objectKey := path.Join("avatars", fmt.Sprintf("%s.%s", user.ID, result.Type))
	options := minio.PutObjectOptions{ContentType: result.MIME}

	_, err = s.store.Client().PutObject(ctx, s.cfg.Storage.BucketAvatars, objectKey, bytes.NewReader(data), int64(len(data)), options)
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	url := s.store.PublicURL(s.cfg.Storage.BucketAvatars, objectKey)
	if err := s.users.SetAvatarURL(ctx, user.ID, url); err != nil {
		return "", fmt.Errorf("save avatar url: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("object", objectKey).Msg("avatar updated")
	return url, nil
}

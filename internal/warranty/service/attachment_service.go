package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// AttachmentService 理赔附件：元数据入库，文件存MinIO
type AttachmentService struct {
	claimRepo   *repository.ClaimRepository
	minioClient *minio.Client
	bucketName  string
}

func NewAttachmentService(claimRepo *repository.ClaimRepository, minioClient *minio.Client, bucketName string) *AttachmentService {
	return &AttachmentService{claimRepo: claimRepo, minioClient: minioClient, bucketName: bucketName}
}

// Upload 上传理赔附件（故障照片、购买凭证等）
func (s *AttachmentService) Upload(ctx context.Context, claimID, fileName, contentType, uploadedBy string, reader io.Reader, fileSize int64) (*entity.ClaimAttachment, error) {
	if fileName == "" {
		return nil, invalidInput("file name is required")
	}
	if _, err := s.claimRepo.FindByID(ctx, claimID); err != nil {
		return nil, notFoundOr(err, "claim", claimID)
	}
	if s.minioClient == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	objectName := fmt.Sprintf("claims/%s/%s%s", time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))
	_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	a := &entity.ClaimAttachment{
		ID:          uuid.New().String(),
		ClaimID:     claimID,
		FileName:    fileName,
		ObjectName:  objectName,
		FileSize:    fileSize,
		ContentType: contentType,
		UploadedBy:  uploadedBy,
	}
	if err := s.claimRepo.CreateAttachment(ctx, a); err != nil {
		return nil, fmt.Errorf("save attachment: %w", err)
	}
	return a, nil
}

// Download 下载附件内容，调用方负责关闭reader
func (s *AttachmentService) Download(ctx context.Context, attachmentID string) (io.ReadCloser, *entity.ClaimAttachment, error) {
	a, err := s.claimRepo.FindAttachment(ctx, attachmentID)
	if err != nil {
		return nil, nil, notFoundOr(err, "attachment", attachmentID)
	}
	if s.minioClient == nil {
		return nil, a, fmt.Errorf("storage not configured")
	}
	object, err := s.minioClient.GetObject(ctx, s.bucketName, a.ObjectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	return object, a, nil
}

// List 理赔的全部附件
func (s *AttachmentService) List(ctx context.Context, claimID string) ([]entity.ClaimAttachment, error) {
	if _, err := s.claimRepo.FindByID(ctx, claimID); err != nil {
		return nil, notFoundOr(err, "claim", claimID)
	}
	return s.claimRepo.ListAttachments(ctx, claimID)
}

package service

import (
	"github.com/bitfantasy/nimo-warranty/internal/config"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Services 保修服务集合
type Services struct {
	Customer      *CustomerService
	Product       *ProductService
	Warranty      *WarrantyService
	Claim         *ClaimService
	ServiceCenter *ServiceCenterService
	Technician    *TechnicianService
	RepairOrder   *RepairOrderService
	Dispatch      *DispatchService
	Report        *ReportService
	Attachment    *AttachmentService
}

// NewServices 创建保修服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	// 初始化MinIO客户端（附件存储，可缺省）
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			minioClient = nil
		}
	}

	warrantySvc := NewWarrantyService(repos.Warranty, repos.Claim, repos.Customer, repos.Product)
	return &Services{
		Customer:      NewCustomerService(repos.Customer, repos.Warranty, repos.Claim),
		Product:       NewProductService(repos.Product, repos.Warranty, repos.Claim),
		Warranty:      warrantySvc,
		Claim:         NewClaimService(repos.Claim, warrantySvc),
		ServiceCenter: NewServiceCenterService(repos.ServiceCenter, repos.Technician, repos.RepairOrder),
		Technician:    NewTechnicianService(repos.Technician, repos.ServiceCenter, repos.RepairOrder),
		RepairOrder:   NewRepairOrderService(repos.RepairOrder, repos.Claim, repos.ServiceCenter),
		Dispatch:      NewDispatchService(repos.ServiceCenter, repos.Technician),
		Report:        NewReportService(repos, rdb),
		Attachment:    NewAttachmentService(repos.Claim, minioClient, cfg.MinIO.Bucket),
	}
}

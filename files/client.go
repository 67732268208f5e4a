package files

import (
	"context"
	"log"

	"github.com/civictech-tw/casework/config"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client *minioSDK.Client
var BucketName string

func InitMinio() {
	endpoint := config.MinioEndpoint
	accessKey := config.MinioAccessKey
	secretKey := config.MinioSecretKey
	useSSL := config.MinioUseSSL
	BucketName = config.MinioBucket

	minioClient, err := minioSDK.New(endpoint, &minioSDK.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, BucketName)
	if err != nil {
		log.Fatalf("Failed to check bucket existence: %v", err)
	}

	if !exists {
		if err := minioClient.MakeBucket(ctx, BucketName, minioSDK.MakeBucketOptions{}); err != nil {
			log.Fatalf("Failed to create bucket: %v", err)
		}
		log.Printf("Bucket created: %s\n", BucketName)
	}

	Client = minioClient
}

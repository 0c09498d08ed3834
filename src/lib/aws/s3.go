package aws

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

func GetS3Client() *s3.Client {
	if s3Client != nil {
		return s3Client
	}
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	s3Client = svc
	return svc
}

// NewS3Client Replace s3 instance with custom client implementation
func NewS3Client(c *s3.Client) *s3.Client {
	s3Client = c
	return s3Client
}

// S3UploadImage stores a property image and returns its public URL.
func S3UploadImage(bucket, key string, body io.Reader, contentType string) (string, error) {
	client := GetS3Client()
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Could not upload object %s: %s\n", key, err.Error())
		return "", err
	}
	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	return url, nil
}

// S3DeleteImageByURL removes an image previously uploaded by S3UploadImage.
func S3DeleteImageByURL(bucket, url string) error {
	prefix := fmt.Sprintf("https://%s.s3.amazonaws.com/", bucket)
	if !strings.HasPrefix(url, prefix) {
		return fmt.Errorf("url %s does not belong to bucket %s", url, bucket)
	}
	key := strings.TrimPrefix(url, prefix)
	client := GetS3Client()
	_, err := client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("Could not delete object %s: %s\n", key, err.Error())
	}
	return err
}

package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStorage uploads proof/receipt/media blobs and returns durable
// download URLs. Credentials come from the environment.
type CloudinaryStorage struct{}

func NewCloudinaryStorage() *CloudinaryStorage { return &CloudinaryStorage{} }

func getCloudinaryInstance() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
}

func (s *CloudinaryStorage) upload(folder, publicID string, file multipart.File) (string, error) {
	cld, err := getCloudinaryInstance()
	if err != nil {
		return "", fmt.Errorf("cloudinary config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	uploadResp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %v", err)
	}

	return uploadResp.SecureURL, nil
}

// UploadContributionProof stores a payment proof under
// contributions/{accountNumber}/{timestamp}_{filename}.
func (s *CloudinaryStorage) UploadContributionProof(accountNumber string, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	folder := fmt.Sprintf("contributions/%s", accountNumber)
	publicID := fmt.Sprintf("%d_%s", time.Now().Unix(), baseName(fileHeader.Filename))
	return s.upload(folder, publicID, file)
}

// UploadExpenseReceipt stores a receipt under expense_proofs/{timestamp}_{filename}.
func (s *CloudinaryStorage) UploadExpenseReceipt(file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	publicID := fmt.Sprintf("%d_%s", time.Now().Unix(), baseName(fileHeader.Filename))
	return s.upload("expense_proofs", publicID, file)
}

// UploadPostMedia stores feed media under
// posts/{mediaType}s/{userId}_{timestamp}_{random}.
func (s *CloudinaryStorage) UploadPostMedia(userID, mediaType string, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	folder := fmt.Sprintf("posts/%ss", mediaType)
	publicID := fmt.Sprintf("%s_%d_%s", userID, time.Now().Unix(), uuid.NewString()[:8])
	return s.upload(folder, publicID, file)
}

// Delete removes a previously uploaded blob given its full URL.
func (s *CloudinaryStorage) Delete(blobURL string) error {
	cld, err := getCloudinaryInstance()
	if err != nil {
		return fmt.Errorf("cloudinary config error: %v", err)
	}

	publicID, err := extractPublicID(blobURL)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("delete error: %v", err)
	}

	return nil
}

func baseName(filename string) string {
	return strings.TrimSuffix(path.Base(filename), path.Ext(filename))
}

// extractPublicID pulls the Cloudinary public ID back out of a full URL.
func extractPublicID(blobURL string) (string, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return "", err
	}

	// Example: https://res.cloudinary.com/demo/image/upload/v1234567890/posts/images/abc123.jpg
	parts := strings.Split(parsedURL.Path, "/")

	if len(parts) < 3 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	cleanPath := parts[len(parts)-2:]
	if strings.HasPrefix(cleanPath[0], "v") {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
	}

	publicID := strings.TrimSuffix(path.Join(parts[3:]...), path.Ext(parts[len(parts)-1]))

	return publicID, nil
}

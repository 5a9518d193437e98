package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// AzureClient reads and writes blobs in Azure Blob Storage. Buckets map to
// containers.
type AzureClient struct {
	client *azblob.Client
}

// AzureConfig holds Azure Blob Storage settings.
type AzureConfig struct {
	Account  string
	Key      string
	Endpoint string // defaults to https://<account>.blob.core.windows.net/
}

// NewAzureClient creates a client authenticated with a shared key.
func NewAzureClient(cfg AzureConfig) (*AzureClient, error) {
	if cfg.Account == "" || cfg.Key == "" {
		return nil, fmt.Errorf("azure client requires account and key")
	}
	cred, err := azblob.NewSharedKeyCredential(cfg.Account, cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("azure shared key credential error: %w", err)
	}
	serviceURL := cfg.Endpoint
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.Account)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azure blob client init error: %w", err)
	}
	return &AzureClient{client: client}, nil
}

// Get downloads a blob.
func (a *AzureClient) Get(ctx context.Context, container, name string) ([]byte, error) {
	resp, err := a.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		return nil, azureError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read blob: %w", ErrTransient, err)
	}
	return data, nil
}

// Put uploads a blob.
func (a *AzureClient) Put(ctx context.Context, container, name string, data []byte, contentType string) error {
	_, err := a.client.UploadBuffer(ctx, container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("failed to upload to azure: %w", azureError(err))
	}
	return nil
}

func azureError(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return classify(err, respErr.ErrorCode, respErr.StatusCode)
	}
	return classify(err, "", 0)
}

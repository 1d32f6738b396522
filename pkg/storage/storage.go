// Package storage provides blob storage operations with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/covenantlabs/covenant/pkg/lifecycle"
)

// ObjectInfo describes a stored blob without its content.
type ObjectInfo struct {
	Key          string    `json:"key"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ListResult is one page of blob metadata. NextMarker is empty when no
// further pages remain.
type ListResult struct {
	Items      []ObjectInfo `json:"items"`
	NextMarker string       `json:"next_marker,omitempty"`
}

// DownloadResult carries a blob stream and the headers needed to serve it.
// The caller must close Body.
type DownloadResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns the blob stream and metadata for the given key.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (*DownloadResult, error)
	// Find returns metadata for the blob at the given key.
	// Returns ErrNotFound if the blob does not exist.
	Find(ctx context.Context, key string) (*ObjectInfo, error)
	// List returns one page of blob metadata under the given prefix, starting
	// at marker. Pass the returned NextMarker to fetch the following page.
	List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error)
	// Delete removes the blob at the given key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New creates a storage system from the given configuration.
// It validates the connection string and creates the Azure client
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := a.client.UploadStream(ctx, a.container, key, reader, opts)
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Download(ctx context.Context, key string) (*DownloadResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	result := &DownloadResult{Body: resp.Body}
	if resp.ContentType != nil {
		result.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		result.ContentLength = *resp.ContentLength
	}

	return result, nil
}

func (a *azure) Find(ctx context.Context, key string) (*ObjectInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blob properties %s: %w", key, err)
	}

	info := &ObjectInfo{Key: key}
	if props.ContentType != nil {
		info.ContentType = *props.ContentType
	}
	if props.ContentLength != nil {
		info.Size = *props.ContentLength
	}
	if props.LastModified != nil {
		info.LastModified = *props.LastModified
	}

	return info, nil
}

func (a *azure) List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error) {
	opts := &azblob.ListBlobsFlatOptions{
		MaxResults: &maxResults,
	}
	if prefix != "" {
		opts.Prefix = &prefix
	}
	if marker != "" {
		opts.Marker = &marker
	}

	pager := a.client.NewListBlobsFlatPager(a.container, opts)

	page, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	result := &ListResult{
		Items: make([]ObjectInfo, 0, len(page.Segment.BlobItems)),
	}

	for _, item := range page.Segment.BlobItems {
		if item.Name == nil {
			continue
		}

		info := ObjectInfo{Key: *item.Name}
		if props := item.Properties; props != nil {
			if props.ContentType != nil {
				info.ContentType = *props.ContentType
			}
			if props.ContentLength != nil {
				info.Size = *props.ContentLength
			}
			if props.LastModified != nil {
				info.LastModified = *props.LastModified
			}
		}

		result.Items = append(result.Items, info)
	}

	if page.NextMarker != nil {
		result.NextMarker = *page.NextMarker
	}

	return result, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := a.client.DeleteBlob(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

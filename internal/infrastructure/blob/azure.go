package blob

import (
	"context"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

const DefaultContainer = "data"

var errMissingConnectionString = errors.Mark(
	errors.New("Server misconfigured: missing AZURE_STORAGE_CONNECTION_STRING"),
	usecase.ErrMisconfigured,
)

// AzureStore reads blobs from one container. A store built without a
// connection string fails every Open with usecase.ErrMisconfigured.
type AzureStore struct {
	client    *azblob.Client
	container string
}

func NewAzureStore(connectionString, container string) (*AzureStore, error) {
	container = strings.TrimSpace(container)
	if container == "" {
		container = DefaultContainer
	}

	store := &AzureStore{container: container}
	conn := strings.TrimSpace(connectionString)
	if conn == "" {
		return store, nil
	}

	client, err := azblob.NewClientFromConnectionString(conn, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create azure blob client")
	}
	store.client = client
	return store, nil
}

func (s *AzureStore) Configured() bool { return s.client != nil }

func (s *AzureStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if s.client == nil {
		return nil, errMissingConnectionString
	}

	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, errors.Mark(
				errors.Newf("blob %s/%s not found", s.container, name),
				usecase.ErrNotFound,
			)
		}
		return nil, errors.Wrapf(err, "download blob %s/%s", s.container, name)
	}
	return resp.Body, nil
}

package walrus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"takasa/pkg/logger"
)

// ErrBlobNotFound is returned by ReadBlob when the aggregator does not know
// the requested blob id.
var ErrBlobNotFound = errors.New("walrus: blob not found")

// Client talks to a Walrus publisher/aggregator pair over HTTP. Blobs are
// write-once and content-addressed; a store returns the blob id to read it
// back with. Every call is a single attempt with a bounded timeout - callers
// are expected to treat failures as "network unavailable" and fall back.
type Client struct {
	publisherURL  string
	aggregatorURL string
	epochs        int
	httpClient    *http.Client
}

func NewClient(publisherURL, aggregatorURL string, epochs int, timeout time.Duration) *Client {
	if epochs <= 0 {
		epochs = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		publisherURL:  strings.TrimRight(publisherURL, "/"),
		aggregatorURL: strings.TrimRight(aggregatorURL, "/"),
		epochs:        epochs,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// BlobRef describes a stored blob as reported by the publisher.
type BlobRef struct {
	BlobID         string    `json:"blob_id"`
	Size           int64     `json:"size"`
	EncodingType   string    `json:"encoding_type,omitempty"`
	CertifiedEpoch int       `json:"certified_epoch,omitempty"`
	AlreadyExisted bool      `json:"already_existed,omitempty"`
	StoredAt       time.Time `json:"stored_at"`
}

// BlobInfo is the result of an existence probe against the aggregator.
type BlobInfo struct {
	BlobID        string `json:"blob_id"`
	Exists        bool   `json:"exists"`
	Size          int64  `json:"size,omitempty"`
	AggregatorURL string `json:"aggregator_url,omitempty"`
}

type blobObject struct {
	BlobID         string `json:"blobId"`
	Size           int64  `json:"size"`
	EncodingType   string `json:"encodingType"`
	CertifiedEpoch int    `json:"certifiedEpoch"`
}

// storeResponse mirrors the publisher's response envelope: exactly one of
// the two branches is populated.
type storeResponse struct {
	NewlyCreated *struct {
		BlobObject blobObject `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobObject blobObject `json:"blobObject"`
	} `json:"alreadyCertified"`
}

// StoreBlob uploads data to the publisher with the configured retention
// period and returns the resulting blob reference.
func (c *Client) StoreBlob(ctx context.Context, data []byte, contentType string) (*BlobRef, error) {
	url := c.publisherURL + "/v1/blobs?epochs=" + strconv.Itoa(c.epochs)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build store request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug("Storing blob to Walrus: %d bytes, type: %s", len(data), contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("walrus store failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read store response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("walrus store failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result storeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse store response: %w", err)
	}

	switch {
	case result.NewlyCreated != nil:
		obj := result.NewlyCreated.BlobObject
		logger.Info("Blob stored on Walrus: %s", obj.BlobID)
		return &BlobRef{
			BlobID:         obj.BlobID,
			Size:           obj.Size,
			EncodingType:   obj.EncodingType,
			CertifiedEpoch: obj.CertifiedEpoch,
			StoredAt:       time.Now().UTC(),
		}, nil
	case result.AlreadyCertified != nil:
		obj := result.AlreadyCertified.BlobObject
		logger.Info("Blob already certified on Walrus: %s", obj.BlobID)
		return &BlobRef{
			BlobID:         obj.BlobID,
			Size:           obj.Size,
			EncodingType:   obj.EncodingType,
			CertifiedEpoch: obj.CertifiedEpoch,
			AlreadyExisted: true,
			StoredAt:       time.Now().UTC(),
		}, nil
	default:
		return nil, fmt.Errorf("unexpected walrus store response: %s", strings.TrimSpace(string(body)))
	}
}

// ReadBlob fetches the raw bytes of a blob from the aggregator.
func (c *Client) ReadBlob(ctx context.Context, blobID string) ([]byte, error) {
	url := c.aggregatorURL + "/v1/" + blobID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build read request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("walrus read failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrBlobNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("walrus read failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob body: %w", err)
	}

	return data, nil
}

// StoreText stores a UTF-8 text payload and returns its blob reference.
func (c *Client) StoreText(ctx context.Context, text string) (*BlobRef, error) {
	return c.StoreBlob(ctx, []byte(text), "text/plain; charset=utf-8")
}

// ReadText fetches a blob and returns it as a string.
func (c *Client) ReadText(ctx context.Context, blobID string) (string, error) {
	data, err := c.ReadBlob(ctx, blobID)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetBlobInfo probes the aggregator for a blob. A read failure other than
// not-found is reported as an error so callers can distinguish "gone" from
// "network down".
func (c *Client) GetBlobInfo(ctx context.Context, blobID string) (*BlobInfo, error) {
	data, err := c.ReadBlob(ctx, blobID)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return &BlobInfo{BlobID: blobID, Exists: false}, nil
		}
		return nil, err
	}

	return &BlobInfo{
		BlobID:        blobID,
		Exists:        true,
		Size:          int64(len(data)),
		AggregatorURL: c.aggregatorURL + "/v1/" + blobID,
	}, nil
}

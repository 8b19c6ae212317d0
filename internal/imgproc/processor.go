package imgproc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// maxImageBytes bounds how much of a source image we are willing to pull.
const maxImageBytes = 20 << 20

// Processor turns a source product image into a background-removed PNG by
// fetching the original and handing it to the external matting service.
// The whole round trip shares one bounded timeout so a slow upstream can
// degrade a request but never hang it.
type Processor struct {
	client     *http.Client
	mattingURL string
}

func New(mattingURL string, timeout time.Duration) *Processor {
	return &Processor{
		client:     &http.Client{Timeout: timeout},
		mattingURL: mattingURL,
	}
}

// Process returns the derived PNG bytes, or an error when any stage of the
// fetch/transform pipeline fails. The transform is a pure function of the
// source image, so retrying on a later request is always safe.
func (p *Processor) Process(ctx context.Context, sourceURL string) ([]byte, error) {
	source, err := p.fetch(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetch source image: %w", err)
	}
	derived, err := p.removeBackground(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("remove background: %w", err)
	}
	return derived, nil
}

func (p *Processor) fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, err
	}
	// Some CDNs reject requests without a browser-looking agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

func (p *Processor) removeBackground(ctx context.Context, image []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.mattingURL, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logutil.GetLogger(ctx).Warn("matting service rejected image", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("matting service status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// GalleryDataPath is the endpoint prefix serving gallery snapshots.
const GalleryDataPath = "/ajax/gallery_data/"

// AJAXHeader marks requests the gallery_data endpoint accepts.
const (
	AJAXHeader = "X-Requested-With"
	AJAXValue  = "XMLHttpRequest"
)

// HTTPSource fetches snapshots from a gallery_data endpoint
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP returns a source for the site at baseURL
func NewHTTP(baseURL string, client *http.Client) (*HTTPSource, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("http source needs a base url")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: want http or https", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: base, client: client}, nil
}

// GalleryDataURL returns the endpoint address for key
func (s *HTTPSource) GalleryDataURL(key model.Key) string {
	ref := &url.URL{Path: GalleryDataPath + url.PathEscape(key.AppLabel) + "/" +
		url.PathEscape(key.ContentType) + "/" + strconv.FormatInt(key.ObjectID, 10) + "/"}
	return s.base.ResolveReference(ref).String()
}

func (s *HTTPSource) Load(ctx context.Context, key model.Key) (model.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.GalleryDataURL(key), nil)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(AJAXHeader, AJAXValue)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to fetch gallery data: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	case resp.StatusCode != http.StatusOK:
		return model.Snapshot{}, fmt.Errorf("gallery data returned status: %s", resp.Status)
	}

	var snap model.Snapshot
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to decode gallery data: %w", err)
	}
	for i := range snap.Images {
		snap.Images[i].FullURL = s.resolve(snap.Images[i].FullURL)
		snap.Images[i].SmallURL = s.resolve(snap.Images[i].SmallURL)
		snap.Images[i].ThumbnailURL = s.resolve(snap.Images[i].ThumbnailURL)
	}
	return snap, nil
}

// resolve makes media urls absolute against the site
func (s *HTTPSource) resolve(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return s.base.ResolveReference(u).String()
}

func (s *HTTPSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

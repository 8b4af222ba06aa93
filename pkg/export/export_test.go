package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

var shopKey = model.Key{AppLabel: "shop", ContentType: "product", ObjectID: 3}

type memSource struct {
	snaps map[model.Key]model.Snapshot
}

func (m *memSource) Load(ctx context.Context, key model.Key) (model.Snapshot, error) {
	snap, ok := m.snaps[key]
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%w: %s", loader.ErrNotFound, key)
	}
	return snap, nil
}

func (m *memSource) Keys(ctx context.Context) ([]model.Key, error) {
	keys := make([]model.Key, 0, len(m.snaps))
	for k := range m.snaps {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *memSource) Close() error { return nil }

type solidFetcher struct{ calls int }

func (f *solidFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	f.calls++
	if strings.Contains(url, "broken") {
		return nil, errors.New("decode failed")
	}
	return image.NewRGBA(image.Rect(0, 0, 200, 100)), nil
}

func sampleSnapshot(n int) model.Snapshot {
	snap := model.Snapshot{SizeSpec: model.DefaultSizeSpec()}
	for i := range n {
		snap.Images = append(snap.Images, model.ImageItem{
			FullURL:      fmt.Sprintf("/media/gallery/img%d.jpg", i),
			FullSize:     model.Size{Width: 752, Height: 400},
			ThumbnailURL: fmt.Sprintf("/media/gallery/img%d_thumbnail.jpg", i),
		})
	}
	return snap
}

func TestSaveContactSheet_SVGAndPNG(t *testing.T) {
	tmp := t.TempDir()
	snap := sampleSnapshot(8)
	snap.Images[3].ThumbnailURL = "/media/gallery/broken_thumbnail.jpg"

	cases := []struct {
		name string
		file string
	}{
		{"svg", "sheet.svg"},
		{"png", "sheet.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(tmp, tc.file)
			fetcher := &solidFetcher{}
			err := SaveContactSheet(context.Background(), ContactSheetOptions{
				Path:     out,
				Title:    "shop/product/3",
				Snapshot: snap,
				Fetcher:  fetcher,
			})
			if err != nil {
				t.Fatalf("SaveContactSheet error: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatalf("output file is empty")
			}
			if tc.name == "png" && fetcher.calls != 8 {
				t.Errorf("expected 8 thumbnail fetches, got %d", fetcher.calls)
			}
		})
	}

	data, _ := os.ReadFile(filepath.Join(tmp, "sheet.svg"))
	if !strings.Contains(string(data), "img7_thumbnail.jpg") {
		t.Error("svg does not reference the last thumbnail")
	}
}

func TestSaveContactSheet_Errors(t *testing.T) {
	tmp := t.TempDir()
	tests := []struct {
		name string
		opts ContactSheetOptions
	}{
		{"format", ContactSheetOptions{Path: filepath.Join(tmp, "a.txt"), Snapshot: sampleSnapshot(1)}},
		{"png without fetcher", ContactSheetOptions{Path: filepath.Join(tmp, "a.png"), Snapshot: sampleSnapshot(1)}},
		{"empty", ContactSheetOptions{Path: filepath.Join(tmp, "a.svg")}},
	}
	for _, tt := range tests {
		if err := SaveContactSheet(context.Background(), tt.opts); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestLayoutSheet(t *testing.T) {
	size, cells := layoutSheet(sampleSnapshot(8), 6)
	// 6 columns of 94+8, two rows of 76+18+8.
	if size.Width != 2*16+6*102-8 || size.Height != 2*16+32+2*102-8 {
		t.Errorf("size = %s", size)
	}
	if cells[6].x != cells[0].x || cells[6].y <= cells[0].y {
		t.Errorf("second row misplaced: %+v", cells[6])
	}
	if cells[0].fitted != (model.Size{Width: 94, Height: 50}) {
		t.Errorf("fitted = %s", cells[0].fitted)
	}
}

func TestCaption(t *testing.T) {
	tests := map[string]string{
		"/media/gallery/a.jpg":         "a.jpg",
		"http://x/media/b.png?v=2":     "b.png",
		"/home/u/pics/shop/c.webp#top": "c.webp",
	}
	for in, want := range tests {
		if got := Caption(in); got != want {
			t.Errorf("Caption(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGalleryServer(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, "shop"), 0o755)
	os.WriteFile(filepath.Join(root, "shop", "a.png"), []byte("png"), 0o644)

	snap := sampleSnapshot(1)
	snap.Images[0].FullURL = filepath.Join(root, "shop", "a.png")
	src := &memSource{snaps: map[model.Key]model.Snapshot{shopKey: snap}}
	srv := httptest.NewServer(NewGalleryServer(src, root, 0).Handler())
	defer srv.Close()

	get := func(path string, ajax bool) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		if ajax {
			req.Header.Set(loader.AJAXHeader, loader.AJAXValue)
		}
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		return resp
	}

	resp := get("/ajax/gallery_data/shop/product/3/", false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("non-ajax request got %d", resp.StatusCode)
	}

	resp = get("/ajax/gallery_data/shop/product/3/", true)
	var got model.Snapshot
	json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if len(got.Images) != 1 || got.Images[0].FullURL != "/media/shop/a.png" {
		t.Errorf("images = %+v", got.Images)
	}
	if got.Thumbnail != (model.Size{Width: 94, Height: 76}) {
		t.Errorf("thumbnail size = %s", got.Thumbnail)
	}

	resp = get("/ajax/gallery_data/shop/product/4/", true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown key got %d", resp.StatusCode)
	}

	resp = get("/ajax/choices/shop/product/", true)
	var choices []choice
	json.NewDecoder(resp.Body).Decode(&choices)
	resp.Body.Close()
	if len(choices) != 1 || choices[0].ID != "3" {
		t.Errorf("choices = %+v", choices)
	}

	resp = get("/media/shop/a.png", false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("media file got %d", resp.StatusCode)
	}

	resp = get("/__gallery__/status", false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status got %d", resp.StatusCode)
	}
}

func TestGalleryServerRoundTripsThroughHTTPLoader(t *testing.T) {
	src := &memSource{snaps: map[model.Key]model.Snapshot{shopKey: sampleSnapshot(3)}}
	srv := httptest.NewServer(NewGalleryServer(src, "", 0).Handler())
	defer srv.Close()

	client, err := loader.NewHTTP(srv.URL, srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	snap, err := client.Load(context.Background(), shopKey)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Images) != 3 || snap.Images[2].FullURL != srv.URL+"/media/gallery/img2.jpg" {
		t.Errorf("images = %+v", snap.Images)
	}
}

func TestGalleryServerListenAndServe(t *testing.T) {
	port, err := FindAvailablePort(19000, 19100)
	if err != nil {
		t.Skipf("no free port: %v", err)
	}
	src := &memSource{snaps: map[model.Key]model.Snapshot{}}
	s := NewGalleryServer(src, "", port)
	if s.URL() != fmt.Sprintf("http://localhost:%d", port) {
		t.Errorf("URL = %s", s.URL())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("ListenAndServe: %v", err)
	}
}

package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// MediaPrefix is where the server exposes files under the media root.
const MediaPrefix = "/media/"

// Port range tried when no port is configured.
const (
	DefaultPortRangeStart = 9000
	DefaultPortRangeEnd   = 9100
)

// GalleryServer answers gallery_data requests from any loader source and
// serves the image files it refers to.
type GalleryServer struct {
	source    loader.Source
	mediaRoot string
	port      int
	server    *http.Server
	started   time.Time
}

// NewGalleryServer creates a server for source. mediaRoot may be empty when
// the source only returns absolute urls.
func NewGalleryServer(source loader.Source, mediaRoot string, port int) *GalleryServer {
	if mediaRoot != "" {
		if abs, err := filepath.Abs(mediaRoot); err == nil {
			mediaRoot = abs
		}
	}
	return &GalleryServer{source: source, mediaRoot: mediaRoot, port: port}
}

// Port returns the port the server listens on
func (s *GalleryServer) Port() int {
	return s.port
}

// URL returns the base url of the server
func (s *GalleryServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Handler returns the server's routes
func (s *GalleryServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET "+loader.GalleryDataPath+"{app}/{type}/{id}/", ajaxOnly(http.HandlerFunc(s.galleryData)))
	mux.Handle("GET /ajax/choices/{app}/{type}/", ajaxOnly(http.HandlerFunc(s.choices)))
	mux.HandleFunc("GET /__gallery__/status", s.status)
	if s.mediaRoot != "" {
		files := http.StripPrefix(MediaPrefix, http.FileServer(http.Dir(s.mediaRoot)))
		mux.Handle("GET "+MediaPrefix, cacheMiddleware(files))
	}
	return mux
}

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *GalleryServer) ListenAndServe(ctx context.Context) error {
	log := pslog.Ctx(ctx)
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()
	log.Info("gallery server running", "url", s.URL(), "media_root", s.mediaRoot)

	select {
	case <-ctx.Done():
		log.Info("shutting down gallery server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *GalleryServer) galleryData(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 0 {
		http.NotFound(w, r)
		return
	}
	key := model.Key{AppLabel: r.PathValue("app"), ContentType: r.PathValue("type"), ObjectID: id}

	snap, err := s.source.Load(r.Context(), key)
	if errors.Is(err, loader.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		pslog.Ctx(r.Context()).Warn("gallery data failed", "key", key.String(), "err", err)
		http.Error(w, "gallery unavailable", http.StatusInternalServerError)
		return
	}
	for i := range snap.Images {
		snap.Images[i].FullURL = s.publicURL(snap.Images[i].FullURL)
		snap.Images[i].SmallURL = s.publicURL(snap.Images[i].SmallURL)
		snap.Images[i].ThumbnailURL = s.publicURL(snap.Images[i].ThumbnailURL)
	}
	if snap.Images == nil {
		snap.Images = []model.ImageItem{}
	}
	writeJSON(w, snap)
}

type choice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// choices lists the objects of one content type that have a gallery.
func (s *GalleryServer) choices(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.source.(loader.Lister)
	if !ok {
		http.NotFound(w, r)
		return
	}
	keys, err := lister.Keys(r.Context())
	if err != nil {
		http.Error(w, "listing unavailable", http.StatusInternalServerError)
		return
	}
	out := []choice{}
	for _, k := range keys {
		if k.AppLabel == r.PathValue("app") && k.ContentType == r.PathValue("type") {
			out = append(out, choice{ID: strconv.FormatInt(k.ObjectID, 10), Name: k.String()})
		}
	}
	writeJSON(w, out)
}

func (s *GalleryServer) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, map[string]any{
		"status":     "running",
		"port":       s.port,
		"media_root": s.mediaRoot,
		"uptime":     time.Since(s.started).Round(time.Second).String(),
	})
}

// publicURL maps a file under the media root onto the /media/ prefix.
func (s *GalleryServer) publicURL(ref string) string {
	if s.mediaRoot == "" || !filepath.IsAbs(ref) {
		return ref
	}
	rel, err := filepath.Rel(s.mediaRoot, ref)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ref
	}
	return MediaPrefix + filepath.ToSlash(rel)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ajaxOnly rejects requests that do not come from the gallery script.
func ajaxOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(loader.AJAXHeader) != loader.AJAXValue {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cacheMiddleware lets clients keep images briefly; variants are rewritten
// in place when the original changes.
func cacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			ln.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// OpenInBrowser opens url with the platform's default handler.
func OpenInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// Package ui hosts the carousel in a terminal. TermRenderer implements the
// carousel's rendering contract; Model is the bubbletea program around it.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/carousel"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/export"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/preload"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/watcher"
)

const (
	// fetchTimeout bounds a background image fetch started by the view.
	fetchTimeout = 30 * time.Second
	// busyRetry is how long an open that raced a transition waits to retry.
	busyRetry = 50 * time.Millisecond
)

// Options configures a Model
type Options struct {
	Key       model.Key
	Preloader *preload.Preloader
	Carousel  carousel.Options
	Metrics   Metrics
	// Duration and Interval drive the tweens. Zero uses the defaults; a
	// negative duration turns animation off.
	Duration time.Duration
	Interval time.Duration
	// Pixels draws images as half-block cells.
	Pixels bool
	Theme  Theme
	// WatchPath reloads the gallery when this file or folder changes.
	WatchPath string
	// Clipboard replaces the system clipboard, mainly for SSH sessions.
	Clipboard func(string) error
}

type (
	openedMsg struct {
		err    error
		reload bool
	}
	retryOpenMsg struct{ reload bool }
	reloadMsg    struct{}
	redrawMsg    struct{}
	fetchedMsg   struct {
		url string
		err error
	}
	statusMsg string
)

// Model is the gallery program
type Model struct {
	ctx       context.Context
	ctrl      *carousel.Controller
	view      *TermRenderer
	viewport  *TermViewport
	preloader *preload.Preloader
	blocks    *blockCache
	fetching  map[string]bool
	log       pslog.Logger

	key       model.Key
	metrics   Metrics
	pixels    bool
	watchPath string
	reloads   chan struct{}
	copyFn    func(string) error

	theme     Theme
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	overlay   HelpOverlayModel
	search    SearchModel
	searching bool
	resize    *watcher.Debouncer

	width, height int
	ready         bool
	err           error
	status        string
}

// NewModel builds the program for one gallery. It does nothing until the
// program starts it.
func NewModel(ctx context.Context, source carousel.Loader, opts Options) Model {
	if opts.Theme.Renderer == nil {
		opts.Theme = DefaultTheme(nil)
	}
	if opts.Preloader == nil {
		opts.Preloader, _ = preload.New(preload.Options{Logger: opts.Carousel.Logger})
	}
	if opts.Duration == 0 {
		opts.Duration = DefaultAnimationDuration
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	log := opts.Carousel.Logger
	if log == nil {
		log = pslog.Ctx(ctx)
		opts.Carousel.Logger = log
	}

	metrics := opts.Metrics.normalized()
	view := NewTermRenderer(opts.Duration, opts.Interval)
	viewport := NewTermViewport(metrics)
	keys := DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Theme.Renderer.NewStyle().Foreground(opts.Theme.Highlight)

	h := help.New()
	h.Styles.ShortKey = opts.Theme.Renderer.NewStyle().Foreground(opts.Theme.Primary)
	h.Styles.ShortDesc = opts.Theme.Renderer.NewStyle().Foreground(opts.Theme.Subtext)

	return Model{
		ctx:       ctx,
		ctrl:      carousel.New(source, opts.Preloader, view, viewport, opts.Carousel),
		view:      view,
		viewport:  viewport,
		preloader: opts.Preloader,
		blocks:    newBlockCache(16),
		fetching:  make(map[string]bool),
		log:       log,
		key:       opts.Key,
		metrics:   metrics,
		pixels:    opts.Pixels,
		watchPath: opts.WatchPath,
		reloads:   make(chan struct{}, 1),
		copyFn:    opts.Clipboard,
		theme:     opts.Theme,
		keys:      keys,
		help:      h,
		spinner:   sp,
		overlay:   NewHelpOverlayModel(opts.Theme, keys),
		resize:    watcher.NewDebouncer(100 * time.Millisecond),
	}
}

// Controller exposes the carousel, mainly for tests
func (m Model) Controller() *carousel.Controller {
	return m.ctrl
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.openCmd(), m.spinner.Tick, m.waitRedraw()}
	if m.watchPath != "" {
		cmds = append(cmds, m.startWatch(), m.waitReload())
	}
	return tea.Batch(cmds...)
}

func (m Model) openCmd() tea.Cmd {
	ctrl, ctx, key := m.ctrl, m.ctx, m.key
	return func() tea.Msg {
		return openedMsg{err: ctrl.Open(ctx, key)}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return openedMsg{err: ctrl.Reload(ctx), reload: true}
	}
}

func (m Model) waitRedraw() tea.Cmd {
	ch, ctx := m.view.Redraws(), m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return redrawMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) startWatch() tea.Cmd {
	path, ctx, reloads, log := m.watchPath, m.ctx, m.reloads, m.log
	return func() tea.Msg {
		w, err := watcher.New(path, watcher.DefaultDebounce, func() {
			select {
			case reloads <- struct{}{}:
			default:
			}
		})
		if err != nil {
			return statusMsg(fmt.Sprintf("watch disabled: %v", err))
		}
		go func() {
			if err := w.Run(pslog.ContextWithLogger(ctx, log)); err != nil {
				log.Warn("watcher stopped", "err", err)
			}
		}()
		return nil
	}
}

func (m Model) waitReload() tea.Cmd {
	ch, ctx := m.reloads, m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return reloadMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// fetchCmd decodes url into the preload cache so the view can draw it.
func (m Model) fetchCmd(url string) tea.Cmd {
	if !m.pixels || url == "" || m.fetching[url] {
		return nil
	}
	if _, ok := m.preloader.Cached(url); ok {
		return nil
	}
	m.fetching[url] = true
	p, ctx := m.preloader, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		_, err := p.Fetch(ctx, url)
		return fetchedMsg{url: url, err: err}
	}
}

func (m Model) fetchVisible() tea.Cmd {
	st := m.view.State()
	cmds := []tea.Cmd{m.fetchCmd(st.Source)}
	for _, u := range st.Thumbnails {
		cmds = append(cmds, m.fetchCmd(u))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.SetCells(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.overlay.SetSize(msg.Width, msg.Height)
		m.search.SetWidth(msg.Width)
		ctrl := m.ctrl
		m.resize.Trigger(ctrl.Resize)
		return m, nil

	case openedMsg:
		if errors.Is(msg.err, carousel.ErrBusy) {
			reload := msg.reload
			return m, tea.Tick(busyRetry, func(time.Time) tea.Msg {
				return retryOpenMsg{reload: reload}
			})
		}
		m.ready = true
		m.err = nil
		switch {
		case errors.Is(msg.err, model.ErrEmptyGallery):
			m.status = "this gallery has no images"
		case msg.err != nil:
			m.err = msg.err
			return m, nil
		default:
			m.status = ""
		}
		m.ctrl.Resize()
		return m, m.fetchVisible()

	case retryOpenMsg:
		if msg.reload {
			return m, m.reloadCmd()
		}
		return m, m.openCmd()

	case reloadMsg:
		m.status = "gallery changed, reloading"
		return m, tea.Batch(m.reloadCmd(), m.waitReload())

	case redrawMsg:
		return m, tea.Batch(m.waitRedraw(), m.fetchCmd(m.view.State().Source))

	case fetchedMsg:
		delete(m.fetching, msg.url)
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.log.Debug("image fetch failed", "url", msg.url, "err", msg.err)
		}
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay.IsVisible() {
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		switch {
		case m.search.IsSubmitted():
			m.searching = false
			if idx, ok := m.search.Selected(); ok {
				m.jump(idx)
			}
		case m.search.IsCancelled():
			m.searching = false
		}
		return m, cmd
	}

	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.err = nil
			m.ready = false
			return m, m.openCmd()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		m.resize.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Next()
	case key.Matches(msg, m.keys.Previous):
		m.ctrl.Previous()
	case key.Matches(msg, m.keys.PageLeft):
		m.ctrl.PageLeft()
	case key.Matches(msg, m.keys.PageRight):
		m.ctrl.PageRight()
	case key.Matches(msg, m.keys.First):
		m.jump(0)
	case key.Matches(msg, m.keys.Last):
		m.jump(m.ctrl.Snapshot().Count - 1)
	case key.Matches(msg, m.keys.Search):
		st := m.ctrl.Snapshot()
		if st.Count == 0 {
			return m, nil
		}
		captions := make([]string, len(st.Items))
		for i, item := range st.Items {
			captions[i] = export.Caption(item.FullURL)
		}
		m.search = NewSearchModel(captions, m.theme)
		m.search.SetWidth(m.width)
		m.searching = true
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		st := m.ctrl.Snapshot()
		if st.Count == 0 {
			return m, nil
		}
		if err := m.copyFn(st.Current.FullURL); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "copied " + export.Caption(st.Current.FullURL)
		}
	case key.Matches(msg, m.keys.Reload):
		m.status = "reloading"
		return m, m.reloadCmd()
	case key.Matches(msg, m.keys.Help):
		m.overlay.Toggle()
	}
	return m, nil
}

func (m *Model) jump(index int) {
	if index < 0 {
		return
	}
	if err := m.ctrl.JumpTo(index); err != nil {
		m.status = err.Error()
	}
}

package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/kyaoi/mdpage/internal/document"
	"github.com/kyaoi/mdpage/internal/errmsg"
)

type fileEventMsg struct {
	path string
	op   fsnotify.Op
}

type fileWatchErrMsg struct {
	err error
}

// watcher follows the directory of the open document so that editors which
// replace the file on save are noticed too.
type watcher struct {
	fs   *fsnotify.Watcher
	ch   chan tea.Msg
	dir  string
	file string
}

func newWatcher() *watcher {
	return &watcher{}
}

func (w *watcher) ensure() error {
	if w.fs != nil {
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fs = fw
	w.ch = make(chan tea.Msg, 10)
	go w.loop(fw, w.ch)
	return nil
}

func (w *watcher) loop(fw *fsnotify.Watcher, ch chan<- tea.Msg) {
	defer close(ch)
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			ch <- fileEventMsg{path: event.Name, op: event.Op}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			ch <- fileWatchErrMsg{err: err}
		}
	}
}

func (w *watcher) follow(path string) error {
	if err := w.ensure(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != w.dir {
		if w.dir != "" {
			_ = w.fs.Remove(w.dir)
		}
		if err := w.fs.Add(dir); err != nil {
			return err
		}
		w.dir = dir
	}
	w.file = path
	return nil
}

func (w *watcher) close() {
	if w.fs == nil {
		return
	}
	_ = w.fs.Close()
	w.fs = nil
	w.dir = ""
	w.file = ""
}

func (m *Model) startWatching(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	first := m.watch.fs == nil
	if err := m.watch.follow(filepath.Clean(path)); err != nil {
		m.err = errmsg.Error(errmsg.OpWatch, err)
		m.logger.Warn("watch failed", "path", path, "err", err)
		return nil
	}
	// Only one reader may wait on the channel.
	if !first {
		return nil
	}
	return m.waitForFileEvent()
}

func (m *Model) stopWatching() {
	m.watch.close()
}

func (m *Model) waitForFileEvent() tea.Cmd {
	ch := m.watch.ch
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) handleFileEvent(msg fileEventMsg) tea.Cmd {
	if m.watch.file != "" && filepath.Clean(msg.path) == m.watch.file {
		m.reloadActiveFile()
	}
	return m.waitForFileEvent()
}

func (m *Model) reloadActiveFile() {
	doc, err := document.Load(m.watch.file)
	if err != nil {
		// Removed or half written; the next event retries.
		m.logger.Debug("reload skipped", "path", m.watch.file, "err", err)
		return
	}
	m.err = nil
	m.replaceDocument(doc)
	m.logger.Info("document reloaded", "path", doc.Path, "pages", doc.PagesCount())
}

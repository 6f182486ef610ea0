package handlers

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type Template struct {
	mu        sync.RWMutex
	dir       string
	templates *template.Template
	watcher   *fsnotify.Watcher
}

func NewTemplate(dir string) (*Template, error) {
	templates, err := parseViews(dir)
	if err != nil {
		return nil, err
	}
	return &Template{dir: dir, templates: templates}, nil
}

func parseViews(dir string) (*template.Template, error) {
	templates, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parsing views: %w", err)
	}
	return templates, nil
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.templates.ExecuteTemplate(w, name, data)
}

// Watch reparses the views whenever one of them is written.
func (t *Template) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	t.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) {
					continue
				}
				log.Infof("modified view: %s", event.Name)
				templates, err := parseViews(t.dir)
				if err != nil {
					log.Errorf("reloading views: %+v", err)
					continue
				}
				t.mu.Lock()
				t.templates = templates
				t.mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("watcher: %+v", err)
			}
		}
	}()

	if err := watcher.Add(t.dir); err != nil {
		return fmt.Errorf("watching %s: %w", t.dir, err)
	}
	return nil
}

func (t *Template) Close() {
	if t.watcher != nil {
		t.watcher.Close()
	}
}

// render adds the attributes every view shows to data and renders the view.
func render(c echo.Context, status int, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["LoggedIn"] = loadSession(c).LoggedIn
	data["CSRFField"] = csrf.TemplateField(c.Request())
	return c.Render(status, name, data)
}

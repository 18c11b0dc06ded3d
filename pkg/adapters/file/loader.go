package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/ports"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

var (
	_ ports.ModelLoader = (*Loader)(nil)
	_ ports.Watchable   = (*Loader)(nil)
)

// Loader reads a model tree from a .yaml, .yml or .json file.
type Loader struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

type Option func(*Loader)

// WithDebounce sets how long Watch waits for writes to settle (50ms by default).
func WithDebounce(d time.Duration) Option {
	return func(l *Loader) {
		l.debounce = d
	}
}

// WithLogger sets the logger used for watcher errors.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for path. The path is made absolute so watcher
// events can be matched against it.
func NewLoader(path string, opts ...Option) (*Loader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve model path: %w", err)
	}
	if _, err := formatOf(abs); err != nil {
		return nil, err
	}
	l := &Loader{
		path:     abs,
		debounce: 50 * time.Millisecond,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the absolute path of the model file.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and decodes the file.
func (l *Loader) Load(_ context.Context) (*domain.Element, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	format, _ := formatOf(l.path)
	return Parse(data, format)
}

// Parse decodes a model tree. format is "json" or "yaml".
// YAML documents go through the JSON decoder of domain.Element so that
// unknown keys land in the feature bag either way.
func Parse(data []byte, format string) (*domain.Element, error) {
	switch format {
	case "json":
	case "yaml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse model yaml: %w", err)
		}
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert model yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported model format %q", format)
	}

	var root domain.Element
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return &root, nil
}

func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported model file %q: want .yaml, .yml or .json", filepath.Base(path))
	}
}

// Watch signals the file path every time the file is written or replaced.
// The parent directory is watched because editors often save through a rename.
// Bursts of events within the debounce window produce one signal.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(l.path), err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		defer watcher.Close()

		timer := time.NewTimer(l.debounce)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != l.path || evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				timer.Reset(l.debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("file watcher error", "path", l.path, "error", err)
			case <-timer.C:
				select {
				case ch <- l.path:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

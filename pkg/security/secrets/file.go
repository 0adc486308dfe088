package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProvider loads a single secret from a file.
//
// File permissions are validated to ensure the secret is properly
// protected (0600 or 0400 only). The value is read once and cached.
// With watching enabled, the cache is cleared whenever the file is
// written, created, renamed or removed, so the next GetSecret re-reads it.
//
// The parent directory is watched rather than the file itself so that
// editors and secret managers that replace the file atomically are
// still noticed.
type FileProvider struct {
	Path  string // Secret file path
	Watch bool   // Enable file watching for auto-reload

	mu      sync.RWMutex
	value   string
	cached  bool
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	logger  *slog.Logger

	closeOnce sync.Once
}

// NewFileProvider creates a provider for the secret file at path.
//
// The file itself may not exist yet, but its directory must.
func NewFileProvider(path string, watch bool) (*FileProvider, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve secret path: %w", err)
	}

	p := &FileProvider{
		Path:   absPath,
		Watch:  watch,
		stopCh: make(chan struct{}),
		logger: slog.Default().With("component", "secrets.file"),
	}

	dir := filepath.Dir(absPath)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secret directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secret directory is not a directory: %s", dir)
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}

		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close() // Best effort close on error path
			return nil, fmt.Errorf("failed to watch directory: %w", err)
		}

		p.watcher = watcher
		go p.watchLoop()
	}

	p.logger.Debug("file secret provider started",
		"path", absPath,
		"watch", watch,
	)

	return p, nil
}

// GetSecret returns the contents of the secret file with surrounding
// whitespace trimmed. A FileProvider holds one secret, so name only
// appears in error messages.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	if p.cached {
		value := p.value
		p.mu.RUnlock()
		return value, nil
	}
	p.mu.RUnlock()

	value, err := p.read(name)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.value = value
	p.cached = true
	p.mu.Unlock()

	return value, nil
}

func (p *FileProvider) read(name string) (string, error) {
	info, err := os.Stat(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s (file %s)", ErrSecretNotFound, name, p.Path)
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", p.Path)
	}

	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", p.Path, mode)
	}

	// #nosec G304 - Path comes from operator configuration
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%w: %s (file %s is empty)", ErrSecretNotFound, name, p.Path)
	}

	return value, nil
}

// Name returns the provider name.
func (p *FileProvider) Name() string {
	return "file"
}

// Refresh clears the cached value, forcing the next read from disk.
func (p *FileProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.value = ""
	p.cached = false

	return nil
}

// Close stops the file watcher. Calling it again is a no-op.
func (p *FileProvider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.watcher != nil {
			close(p.stopCh)
			err = p.watcher.Close()
		}
	})
	return err
}

// watchLoop clears the cache when the secret file changes.
func (p *FileProvider) watchLoop() {
	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != p.Path || event.Op&relevant == 0 {
				continue
			}

			p.logger.Debug("secret file changed, clearing cache",
				"file", filepath.Base(event.Name),
				"op", event.Op.String(),
			)

			if err := p.Refresh(context.Background()); err != nil {
				p.logger.Error("failed to refresh secret after file change", "error", err)
			}

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}

			p.logger.Error("file watcher error", "error", err)

		case <-p.stopCh:
			return
		}
	}
}

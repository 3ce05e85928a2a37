// Package filesystem provides a paper source backed by a local directory
// tree. Seed papers live under seeds/ and corpus papers under corpus/;
// keys are slash-separated paths relative to the root.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

const (
	sourceType = "filesystem"

	seedDir   = "seeds"
	corpusDir = "corpus"

	// debounceInterval coalesces bursts of change events into one signal.
	debounceInterval = 500 * time.Millisecond
)

// Source reads papers from a directory tree.
type Source struct {
	root string
}

// New creates a filesystem source rooted at the given directory.
// The path is validated on first use, not at construction.
func New(root string) *Source {
	return &Source{root: root}
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return sourceType
}

// Validate checks that the root path exists and is a directory.
func (s *Source) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(s.root)
	if os.IsNotExist(err) {
		return fmt.Errorf("root path does not exist: %s", s.root)
	}
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", s.root)
	}
	return nil
}

// List enumerates papers with the given role by walking the role's
// subdirectory. A missing subdirectory yields an empty listing.
func (s *Source) List(ctx context.Context, role domain.PaperRole) ([]driven.SourceObject, error) {
	sub, err := roleDir(role)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(ctx); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, sub)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var objects []driven.SourceObject
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		objects = append(objects, driven.SourceObject{
			Key:        filepath.ToSlash(rel),
			Role:       role,
			Size:       info.Size(),
			ETag:       fileETag(info),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s papers: %w", role, err)
	}
	return objects, nil
}

// Fetch reads the raw bytes for a source key.
func (s *Source) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty source key", domain.ErrInvalidInput)
	}

	rel := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: key escapes the source root: %s", domain.ErrInvalidInput, key)
	}

	content, err := os.ReadFile(filepath.Join(s.root, rel))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return content, nil
}

// Watch emits a signal whenever files under the root change. Events are
// debounced so a burst of writes produces a single signal. The channel
// closes when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := s.Validate(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(s.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.root, err)
	}
	for _, sub := range []string{seedDir, corpusDir} {
		dir := filepath.Join(s.root, sub)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := watcher.Add(dir); err != nil {
				watcher.Close()
				return nil, fmt.Errorf("watch %s: %w", dir, err)
			}
		}
	}

	signals := make(chan struct{}, 1)

	go func() {
		defer close(signals)
		defer watcher.Close()

		var debounce <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				// Hidden-file checks apply below the root; the root itself
				// may live in a dotted directory.
				if rel, err := filepath.Rel(s.root, event.Name); err == nil && isHidden(rel) {
					continue
				}
				// Role directories created after the watch started must
				// join the watch set before their files change.
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						watcher.Add(event.Name)
						continue
					}
				}
				debounce = time.After(debounceInterval)

			case <-debounce:
				debounce = nil
				select {
				case signals <- struct{}{}:
				default:
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return signals, nil
}

// roleDir maps a paper role to its subdirectory.
func roleDir(role domain.PaperRole) (string, error) {
	switch role {
	case domain.RoleSeed:
		return seedDir, nil
	case domain.RoleCorpus:
		return corpusDir, nil
	default:
		return "", fmt.Errorf("%w: invalid paper role: %s", domain.ErrInvalidInput, role)
	}
}

// fileETag derives a content version tag from file metadata, so
// unchanged papers can be skipped without reading their bytes.
func fileETag(info fs.FileInfo) string {
	return fmt.Sprintf("%x-%x", info.ModTime().UnixNano(), info.Size())
}

// isHidden reports whether any component of the path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// Package watch re-runs a callback whenever watched input files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces editor save bursts into one change notification.
const DefaultDebounce = 200 * time.Millisecond

const (
	errorCreateWatcherFormat = "create file watcher: %w"
	errorResolvePathFormat   = "resolve watched path %s: %w"
	errorStatPathFormat      = "inspect watched path %s: %w"
	errorAddDirectoryFormat  = "watch directory %s: %w"
	errorWalkDirectoryFormat = "walk watched directory %s: %w"
	errorWatcherFailedFormat = "file watcher failed: %w"

	logMessageWatching       = "watching inputs"
	logMessageChangeDetected = "input changed"
	logMessageChangeFailed   = "regeneration failed"
	logMessageAddFailed      = "watch new directory failed"
	logFieldPaths            = "paths"
	logFieldPath             = "path"
	logFieldOperation        = "operation"
	hiddenPrefix             = "."
	relevantOperations       = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
)

// ChangeHandler is invoked after a debounced burst of changes.
type ChangeHandler func(ctx context.Context) error

// Config defines the inputs of a Watcher.
type Config struct {
	// Paths lists files and directories. Directories are watched recursively.
	Paths    []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher watches input files and directories for changes.
type Watcher struct {
	config Config
}

// NewWatcher creates a Watcher with defaults applied.
func NewWatcher(config Config) *Watcher {
	normalized := config
	if normalized.Debounce <= 0 {
		normalized.Debounce = DefaultDebounce
	}
	if normalized.Logger == nil {
		normalized.Logger = zap.NewNop()
	}
	return &Watcher{config: normalized}
}

type watchScope struct {
	files       map[string]struct{}
	directories []string
}

func (scope watchScope) matches(eventPath string) bool {
	if strings.HasPrefix(filepath.Base(eventPath), hiddenPrefix) {
		return false
	}
	if _, found := scope.files[eventPath]; found {
		return true
	}
	for _, directory := range scope.directories {
		relative, err := filepath.Rel(directory, eventPath)
		if err == nil && relative != ".." && !strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run blocks until ctx is canceled, invoking onChange once per debounced burst of changes.
// Errors returned by onChange are logged and do not stop the watcher.
func (watcher *Watcher) Run(ctx context.Context, onChange ChangeHandler) error {
	fileWatcher, createErr := fsnotify.NewWatcher()
	if createErr != nil {
		return fmt.Errorf(errorCreateWatcherFormat, createErr)
	}
	defer fileWatcher.Close()

	scope, scopeErr := watcher.register(fileWatcher)
	if scopeErr != nil {
		return scopeErr
	}
	watcher.config.Logger.Info(logMessageWatching, zap.Strings(logFieldPaths, watcher.config.Paths))

	debounceTimer := time.NewTimer(watcher.config.Debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	defer debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, open := <-fileWatcher.Events:
			if !open {
				return nil
			}
			if event.Op&relevantOperations == 0 {
				continue
			}
			if !scope.matches(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				watcher.watchNewDirectory(fileWatcher, scope, event.Name)
			}
			watcher.config.Logger.Debug(logMessageChangeDetected,
				zap.String(logFieldPath, event.Name),
				zap.String(logFieldOperation, event.Op.String()))
			debounceTimer.Reset(watcher.config.Debounce)
		case watchErr, open := <-fileWatcher.Errors:
			if !open {
				return nil
			}
			return fmt.Errorf(errorWatcherFailedFormat, watchErr)
		case <-debounceTimer.C:
			if changeErr := onChange(ctx); changeErr != nil {
				watcher.config.Logger.Warn(logMessageChangeFailed, zap.Error(changeErr))
			}
		}
	}
}

// register adds the parent directory of every watched file and every watched directory tree.
// Parents are watched instead of files so atomic renames by editors keep being observed.
func (watcher *Watcher) register(fileWatcher *fsnotify.Watcher) (watchScope, error) {
	scope := watchScope{files: map[string]struct{}{}}
	added := map[string]struct{}{}
	addDirectory := func(directory string) error {
		if _, found := added[directory]; found {
			return nil
		}
		if addErr := fileWatcher.Add(directory); addErr != nil {
			return fmt.Errorf(errorAddDirectoryFormat, directory, addErr)
		}
		added[directory] = struct{}{}
		return nil
	}

	for _, watchedPath := range watcher.config.Paths {
		absolutePath, absErr := filepath.Abs(watchedPath)
		if absErr != nil {
			return watchScope{}, fmt.Errorf(errorResolvePathFormat, watchedPath, absErr)
		}
		info, statErr := os.Stat(absolutePath)
		if statErr != nil {
			return watchScope{}, fmt.Errorf(errorStatPathFormat, watchedPath, statErr)
		}
		if !info.IsDir() {
			scope.files[absolutePath] = struct{}{}
			if addErr := addDirectory(filepath.Dir(absolutePath)); addErr != nil {
				return watchScope{}, addErr
			}
			continue
		}
		scope.directories = append(scope.directories, absolutePath)
		walkErr := filepath.WalkDir(absolutePath, func(current string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() {
				return nil
			}
			if current != absolutePath && strings.HasPrefix(entry.Name(), hiddenPrefix) {
				return filepath.SkipDir
			}
			return addDirectory(current)
		})
		if walkErr != nil {
			return watchScope{}, fmt.Errorf(errorWalkDirectoryFormat, watchedPath, walkErr)
		}
	}
	return scope, nil
}

func (watcher *Watcher) watchNewDirectory(fileWatcher *fsnotify.Watcher, scope watchScope, eventPath string) {
	info, statErr := os.Stat(eventPath)
	if statErr != nil || !info.IsDir() {
		return
	}
	if _, isFile := scope.files[eventPath]; isFile {
		return
	}
	if addErr := fileWatcher.Add(eventPath); addErr != nil {
		watcher.config.Logger.Warn(logMessageAddFailed, zap.String(logFieldPath, eventPath), zap.Error(addErr))
	}
}

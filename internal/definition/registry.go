package definition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Registry holds named network definitions. Returned definitions are shared
// and must not be modified.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]*domain.NetworkDefinition
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{defs: make(map[string]*domain.NetworkDefinition), logger: logger}
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (*domain.NetworkDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// List returns every definition ordered by name.
func (r *Registry) List() []*domain.NetworkDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.NetworkDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Put validates def and registers it, replacing any definition of the same
// name.
func (r *Registry) Put(def *domain.NetworkDefinition) error {
	if err := Validate(def); err != nil {
		return err
	}
	r.mu.Lock()
	r.defs[def.Name] = def
	r.mu.Unlock()
	return nil
}

// LoadDir replaces the registry contents with the definitions found in dir.
// Any unreadable or invalid file fails the load and leaves the registry
// unchanged.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	defs := make(map[string]*domain.NetworkDefinition)
	for _, e := range entries {
		if e.IsDir() || !isDefinitionFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		def, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := Validate(def); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, dup := defs[def.Name]; dup {
			return fmt.Errorf("%s: %w: network %q defined twice", path, ErrInvalidDefinition, def.Name)
		}
		defs[def.Name] = def
	}

	r.mu.Lock()
	r.defs = defs
	r.mu.Unlock()

	r.logger.Info("network definitions loaded", zap.String("dir", dir), zap.Int("count", len(defs)))
	return nil
}

// Watch reloads dir whenever a definition file in it changes. A failed
// reload is logged and the previous definitions stay active. It runs until
// ctx is cancelled.
func (r *Registry) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	r.logger.Info("watching network definitions", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDefinitionFile(event.Name) || event.Has(fsnotify.Chmod) {
				continue
			}
			if err := r.LoadDir(dir); err != nil {
				r.logger.Error("reload failed, keeping previous definitions",
					zap.String("dir", dir), zap.String("file", event.Name), zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("definition watcher error", zap.Error(err))
		}
	}
}

func isDefinitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

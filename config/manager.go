package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/lcx/extdb/log"
)

// ConfigManager exposes the sections of the extension's single INI file as
// typed structs. The file is read once at startup and watched for writes so
// hooks can react to edits (the logger uses this to adjust its level without
// a server restart).
type ConfigManager interface {
	// LoadSection unmarshals the named INI section into config and keeps it
	// for later GetSection calls and hot reload.
	LoadSection(section string, config Config) error
	// GetSection returns a previously loaded section.
	GetSection(section string) (Config, error)
	// HasSection reports whether the file contains the named section with the
	// given key, e.g. HasSection("Database", "Type").
	HasSection(section, key string) bool
	// SectionStrings returns the raw key/value pairs of a section. INI values
	// are untyped text; callers coerce them with cast.
	SectionStrings(section string) (map[string]string, error)
	RegisterValidator(section string, validator ValidatorFunc)
	RegisterHook(section string, hook HookFunc)
	// Path returns the file the manager was opened on.
	Path() string
	Close() error
}

// ValidatorFunc checks a freshly unmarshalled section.
type ValidatorFunc func(Config) error

// HookFunc observes a section change after a reload. Returning an error keeps
// the old value.
type HookFunc func(oldVal, newVal Config) error

type configManager struct {
	mu         sync.RWMutex
	path       string
	v          *viper.Viper
	sections   map[string]Config
	validators map[string]ValidatorFunc
	hooks      map[string][]HookFunc
	watcher    *fsnotify.Watcher
}

// NewConfigManager opens the INI file at path. The caller discovers the path
// with FindConfigFile first; a missing file is a startup-fatal condition and
// surfaces here as an error.
func NewConfigManager(path string) (ConfigManager, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cm := &configManager{
		path:       path,
		v:          v,
		sections:   make(map[string]Config),
		validators: make(map[string]ValidatorFunc),
		hooks:      make(map[string][]HookFunc),
	}

	if err := cm.watchConfigFile(); err != nil {
		return nil, fmt.Errorf("watch config file failed: %w", err)
	}

	return cm, nil
}

func (cm *configManager) LoadSection(section string, config Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := cm.unmarshalSection(cm.v, section, config); err != nil {
		return err
	}

	if validator, exists := cm.validators[section]; exists {
		if err := validator(config); err != nil {
			return fmt.Errorf("validate section %s failed: %w", section, err)
		}
	}

	cm.sections[section] = config
	return nil
}

func (cm *configManager) unmarshalSection(v *viper.Viper, section string, config Config) error {
	sub := v.Sub(section)
	if sub == nil {
		// A section can legally be empty; every key then takes its zero value.
		if !v.IsSet(section) {
			return fmt.Errorf("section %s not found in %s", section, cm.path)
		}
		sub = viper.New()
	}
	if err := sub.Unmarshal(config); err != nil {
		return fmt.Errorf("unmarshal section %s failed: %w", section, err)
	}
	return nil
}

func (cm *configManager) GetSection(section string) (Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	config, exists := cm.sections[section]
	if !exists {
		return nil, fmt.Errorf("section %s not loaded", section)
	}
	return config, nil
}

func (cm *configManager) HasSection(section, key string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.v.IsSet(section + "." + key)
}

func (cm *configManager) SectionStrings(section string) (map[string]string, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.v.IsSet(section) {
		return nil, fmt.Errorf("section %s not found in %s", section, cm.path)
	}
	return cm.v.GetStringMapString(section), nil
}

func (cm *configManager) RegisterValidator(section string, validator ValidatorFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.validators[section] = validator
}

func (cm *configManager) RegisterHook(section string, hook HookFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.hooks[section] = append(cm.hooks[section], hook)
}

func (cm *configManager) Path() string {
	return cm.path
}

func (cm *configManager) watchConfigFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	cm.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					cm.reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()

	return watcher.Add(cm.path)
}

// reload re-reads the file and re-unmarshals every loaded section, keeping
// the old value whenever validation or a hook rejects the new one.
func (cm *configManager) reload() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	v := viper.New()
	v.SetConfigFile(cm.path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("path", cm.path).Msg("config reload read failed")
		return
	}

	for section, oldConfig := range cm.sections {
		newConfig := reflect.New(reflect.TypeOf(oldConfig).Elem()).Interface().(Config)

		if err := cm.unmarshalSection(v, section, newConfig); err != nil {
			log.Warn().Err(err).Str("section", section).Msg("config reload unmarshal failed")
			continue
		}

		if validator, exists := cm.validators[section]; exists {
			if err := validator(newConfig); err != nil {
				log.Warn().Err(err).Str("section", section).Msg("config reload validation failed")
				continue
			}
		}

		rejected := false
		for _, hook := range cm.hooks[section] {
			if err := hook(oldConfig, newConfig); err != nil {
				log.Warn().Err(err).Str("section", section).Msg("config reload hook rejected change")
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}

		cm.sections[section] = newConfig
	}

	cm.v = v
}

func (cm *configManager) Close() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.watcher != nil {
		return cm.watcher.Close()
	}
	return nil
}

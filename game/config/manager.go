package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/tile-merge-game/game/engine"
	"github.com/wricardo/tile-merge-game/game/service"
)

var (
	// ErrConfigNotFound is shared with the service layer so callers there can
	// match it without importing this package.
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// EnvPrefix namespaces environment overrides, e.g. TILEMERGE_WIN_THRESHOLD=512
const EnvPrefix = "TILEMERGE"

// Extensions are the config file types the manager reads, in lookup order
var Extensions = []string{".yaml", ".yml", ".json"}

// Manager handles game configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	logger        *slog.Logger
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. An empty configDir serves
// the built-in classic rules only.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		info, err := os.Stat(configDir)
		if err != nil {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("config path is not a directory: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
		logger:    slog.Default().With("component", "config"),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// Dir returns the directory configs are read from, empty for built-in only
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadConfig loads a configuration by name. The name may carry a file
// extension; without one the .yaml, .yml and .json files are tried in turn.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id := configID(name)

	m.mu.RLock()
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return copyConfig(config), nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return copyConfig(config), nil
	}

	config, err := m.loadLocked(name)
	if err != nil {
		return nil, err
	}

	m.configs[id] = config
	return copyConfig(config), nil
}

func (m *Manager) loadLocked(name string) (*engine.GameConfig, error) {
	path, err := m.resolve(name)
	if errors.Is(err, ErrConfigNotFound) && configID(name) == builtinName {
		return engine.DefaultGameConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	config, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.logger.Debug("config loaded", "name", configID(name), "path", path)
	return config, nil
}

// resolve finds the file backing name in the config directory
func (m *Manager) resolve(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}
	if m.configDir == "" {
		return "", fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	candidates := []string{name}
	if !hasConfigExt(name) {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, filename := range candidates {
		path := filepath.Join(m.configDir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrConfigNotFound, name)
}

// readConfigFile reads one file through a fresh viper instance. Missing keys
// fall back to the classic rules, the display name to the file name, and
// any key can be overridden from the environment.
func readConfigFile(path string) (*engine.GameConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := engine.DefaultGameConfig()
	v.SetDefault("name", configID(filepath.Base(path)))
	v.SetDefault("description", "")
	v.SetDefault("grid_size", defaults.GridSize)
	v.SetDefault("win_threshold", defaults.WinThreshold)
	v.SetDefault("four_probability", defaults.FourProbability)
	v.SetDefault("start_tiles", defaults.StartTiles)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}

	var config engine.GameConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}
	return &config, nil
}

// ListConfigs returns information about all available configurations,
// sorted by id. The built-in classic rules are listed unless a file
// shadows them.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	files, err := m.configFiles()
	if err != nil {
		return nil, err
	}

	for _, filename := range files {
		id := configID(filename)
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(filename)
		if err != nil {
			m.logger.Warn("skipping invalid config", "file", filename, "error", err)
			continue
		}
		seen[id] = true
		configs = append(configs, configInfo(filename, id, config))
	}

	if !seen[builtinName] {
		configs = append(configs, configInfo("", builtinName, engine.DefaultGameConfig()))
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// configFiles lists the config file names in the directory, in lookup order
func (m *Manager) configFiles() ([]string, error) {
	if m.configDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var files []string
	for _, ext := range Extensions {
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ext {
				files = append(files, entry.Name())
			}
		}
	}
	return files, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyConfig(m.defaultConfig)
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached configuration and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig picks classic if present, else the first valid file,
// else the built-in rules.
func (m *Manager) loadDefaultConfig() error {
	files, err := m.configFiles()
	if err != nil {
		return err
	}

	var config *engine.GameConfig
	if _, err := m.resolve(builtinName); err == nil {
		if config, err = m.LoadConfig(builtinName); err != nil {
			m.logger.Warn("classic config unusable", "error", err)
		}
	}
	for _, filename := range files {
		if config != nil {
			break
		}
		if loaded, err := m.LoadConfig(filename); err == nil {
			config = loaded
		}
	}
	if config == nil {
		config = engine.DefaultGameConfig()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig validates config and writes it as YAML to <name>.yaml
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if m.configDir == "" {
		return fmt.Errorf("no config directory to save %q into", name)
	}
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid config name %q", name)
	}

	id := configID(name)
	configPath := filepath.Join(m.configDir, id+".yaml")

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = copyConfig(config)
	m.mu.Unlock()

	m.logger.Info("config saved", "name", id, "path", configPath)
	return nil
}

const builtinName = "classic"

func configID(name string) string {
	if hasConfigExt(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

func hasConfigExt(name string) bool {
	ext := filepath.Ext(name)
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

func configInfo(filename, id string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:     filename,
		ConfigID:     id,
		Name:         config.Name,
		Description:  config.Description,
		GridSize:     config.GridSize,
		WinThreshold: config.WinThreshold,
		FourOdds:     config.FourProbability,
	}
}

func copyConfig(config *engine.GameConfig) *engine.GameConfig {
	if config == nil {
		return nil
	}
	c := *config
	return &c
}

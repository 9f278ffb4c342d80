package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/tile-merge-game/game/engine"
)

func createValidConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:            "Test Config",
		Description:     "Test configuration",
		GridSize:        5,
		WinThreshold:    1024,
		FourProbability: 0.25,
		StartTiles:      3,
	}
}

func writeFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
}

func writeJSONConfig(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	require.NoError(t, err)
	writeFile(t, dir, name+".json", string(data))
}

func TestNewManager(t *testing.T) {
	t.Run("built-in only", func(t *testing.T) {
		m, err := NewManager("")
		require.NoError(t, err)

		def := m.GetDefault()
		assert.Equal(t, "classic", def.Name)
		assert.Equal(t, 4, def.GridSize)
		assert.Equal(t, "", m.Dir())
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "classic.yaml", "name: classic\n")
		_, err := NewManager(filepath.Join(dir, "classic.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty directory falls back to built-in", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, engine.DefaultGameConfig(), m.GetDefault())
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.yaml", `
name: Small
description: Three by three
grid_size: 3
win_threshold: 256
four_probability: 0.2
start_tiles: 2
`)
	writeFile(t, dir, "partial.yml", "grid_size: 5\n")
	writeJSONConfig(t, dir, "json_config", createValidConfig())
	writeFile(t, dir, "broken.yaml", "grid_size: [1, 2\n")
	writeFile(t, dir, "invalid.yaml", "grid_size: 12\n")

	m, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("yaml", func(t *testing.T) {
		config, err := m.LoadConfig("small")
		require.NoError(t, err)
		assert.Equal(t, "Small", config.Name)
		assert.Equal(t, 3, config.GridSize)
		assert.Equal(t, 256, config.WinThreshold)
		assert.InDelta(t, 0.2, config.FourProbability, 1e-9)
	})

	t.Run("missing keys use classic rules", func(t *testing.T) {
		config, err := m.LoadConfig("partial")
		require.NoError(t, err)
		assert.Equal(t, "partial", config.Name)
		assert.Equal(t, 5, config.GridSize)
		assert.Equal(t, engine.DefaultWinThreshold, config.WinThreshold)
		assert.Equal(t, engine.DefaultStartTiles, config.StartTiles)
	})

	t.Run("json with extension", func(t *testing.T) {
		config, err := m.LoadConfig("json_config.json")
		require.NoError(t, err)
		assert.Equal(t, createValidConfig(), config)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := m.LoadConfig("nonexistent")
		assert.True(t, errors.Is(err, ErrConfigNotFound), "got %v", err)
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := m.LoadConfig("../small")
		assert.True(t, errors.Is(err, ErrConfigNotFound), "got %v", err)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := m.LoadConfig("broken")
		assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	})

	t.Run("fails validation", func(t *testing.T) {
		_, err := m.LoadConfig("invalid")
		assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	})

	t.Run("classic without a file is built in", func(t *testing.T) {
		config, err := m.LoadConfig("classic")
		require.NoError(t, err)
		assert.Equal(t, engine.DefaultGameConfig(), config)
	})

	t.Run("returned config is a copy", func(t *testing.T) {
		config, err := m.LoadConfig("small")
		require.NoError(t, err)
		config.GridSize = 8

		again, err := m.LoadConfig("small")
		require.NoError(t, err)
		assert.Equal(t, 3, again.GridSize)
	})
}

func TestManager_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classic.yaml", "name: classic\nwin_threshold: 2048\n")
	t.Setenv("TILEMERGE_WIN_THRESHOLD", "512")

	m, err := NewManager(dir)
	require.NoError(t, err)

	assert.Equal(t, 512, m.GetDefault().WinThreshold)
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("classic file wins", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "aaa.yaml", "name: First\ngrid_size: 3\nwin_threshold: 256\n")
		writeFile(t, dir, "classic.yaml", "name: My Classic\ngrid_size: 6\n")

		m, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "My Classic", m.GetDefault().Name)
	})

	t.Run("first valid file without classic", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "aaa.yaml", "grid_size: 99\n")
		writeFile(t, dir, "bbb.yaml", "name: Second\ngrid_size: 3\nwin_threshold: 256\n")

		m, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "Second", m.GetDefault().Name)
	})

	t.Run("set default", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "big.yaml", "name: Big\ngrid_size: 6\n")

		m, err := NewManager(dir)
		require.NoError(t, err)
		require.NoError(t, m.SetDefault("big"))
		assert.Equal(t, "Big", m.GetDefault().Name)

		assert.Error(t, m.SetDefault("missing"))
		assert.Equal(t, "Big", m.GetDefault().Name)
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.yaml", "name: Small\ngrid_size: 3\nwin_threshold: 256\n")
	writeJSONConfig(t, dir, "large", &engine.GameConfig{
		Name: "Large", GridSize: 6, WinThreshold: 4096, FourProbability: 0.1, StartTiles: 2,
	})
	writeFile(t, dir, "invalid.yaml", "grid_size: 1\n")
	writeFile(t, dir, "notes.txt", "not a config")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	m, err := NewManager(dir)
	require.NoError(t, err)

	configs, err := m.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 3)

	assert.Equal(t, "classic", configs[0].ConfigID)
	assert.Equal(t, "", configs[0].Filename)
	assert.Equal(t, "large", configs[1].ConfigID)
	assert.Equal(t, "large.json", configs[1].Filename)
	assert.Equal(t, 4096, configs[1].WinThreshold)
	assert.Equal(t, "small", configs[2].ConfigID)
	assert.Equal(t, 3, configs[2].GridSize)
}

func TestManager_ListConfigsBuiltInOnly(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	configs, err := m.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "classic", configs[0].ConfigID)
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	config := createValidConfig()
	require.NoError(t, m.SaveConfig("custom", config))

	_, err = os.Stat(filepath.Join(dir, "custom.yaml"))
	require.NoError(t, err)

	// Read back through a fresh manager so the file itself is checked
	fresh, err := NewManager(dir)
	require.NoError(t, err)
	loaded, err := fresh.LoadConfig("custom")
	require.NoError(t, err)
	assert.Equal(t, config, loaded)

	invalid := createValidConfig()
	invalid.GridSize = 0
	err = m.SaveConfig("bad", invalid)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)

	assert.Error(t, m.SaveConfig("../escape", createValidConfig()))

	builtin, err := NewManager("")
	require.NoError(t, err)
	assert.Error(t, builtin.SaveConfig("custom", createValidConfig()))
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.yaml", "name: Small\ngrid_size: 3\nwin_threshold: 256\n")

	m, err := NewManager(dir)
	require.NoError(t, err)

	config, err := m.LoadConfig("small")
	require.NoError(t, err)
	assert.Equal(t, 256, config.WinThreshold)

	writeFile(t, dir, "small.yaml", "name: Small\ngrid_size: 3\nwin_threshold: 512\n")

	// Cached until refreshed
	config, err = m.LoadConfig("small")
	require.NoError(t, err)
	assert.Equal(t, 256, config.WinThreshold)

	require.NoError(t, m.RefreshCache())
	config, err = m.LoadConfig("small")
	require.NoError(t, err)
	assert.Equal(t, 512, config.WinThreshold)
}

func TestManager_ValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classic.yaml", "name: classic\n")
	writeFile(t, dir, "tiny.yaml", "name: Tiny\ngrid_size: 2\nwin_threshold: 2048\n")
	writeFile(t, dir, "tiny_ok.yaml", "name: Tiny\ngrid_size: 2\nwin_threshold: 32\n")
	writeFile(t, dir, "odd.json", `{"name": "Odd", "win_threshold": 1000}`)
	writeFile(t, dir, "broken.yml", "grid_size: [\n")

	m, err := NewManager(dir)
	require.NoError(t, err)

	results, err := m.ValidateDir()
	require.NoError(t, err)

	byFile := make(map[string]ValidationResult)
	for _, r := range results {
		byFile[r.File] = r
	}
	require.Len(t, byFile, 5)

	assert.True(t, byFile["classic.yaml"].Valid)
	assert.NotEmpty(t, byFile["classic.yaml"].Notes)
	assert.True(t, byFile["tiny_ok.yaml"].Valid)

	assert.False(t, byFile["tiny.yaml"].Valid)
	assert.Contains(t, byFile["tiny.yaml"].Errors[0], "unreachable")
	assert.False(t, byFile["odd.json"].Valid)
	assert.Contains(t, byFile["odd.json"].Errors[0], "win_threshold")
	assert.False(t, byFile["broken.yml"].Valid)

	builtin, err := NewManager("")
	require.NoError(t, err)
	_, err = builtin.ValidateDir()
	assert.Error(t, err)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.yaml", "name: Small\ngrid_size: 3\nwin_threshold: 256\n")
	writeFile(t, dir, "large.yaml", "name: Large\ngrid_size: 6\n")

	m, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "small"
			if i%2 == 0 {
				name = "large"
			}
			if _, err := m.LoadConfig(name); err != nil {
				errs <- err
			}
			if _, err := m.ListConfigs(); err != nil {
				errs <- err
			}
			m.GetDefault()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent access error: %v", err)
	}
}

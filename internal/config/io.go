package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	appDir        = "edge-groups"
	configFile    = "config.toml"
	inventoryFile = "edge.toml"
)

// ErrIsDir is returned when a config or inventory path names a directory.
var ErrIsDir = errors.New("path is a directory")

func configDir() (string, error) {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if home == "" {
		return "", errors.New("home directory not found")
	}
	return filepath.Join(home, ".config", appDir), nil
}

func defaultFile(name string) (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// DefaultPath is config.toml under $XDG_CONFIG_HOME/edge-groups.
func DefaultPath() (string, error) { return defaultFile(configFile) }

// DefaultInventoryPath is edge.toml in the same directory.
func DefaultInventoryPath() (string, error) { return defaultFile(inventoryFile) }

// InventoryPathFromConfigPath puts edge.toml next to the given config.toml.
func InventoryPathFromConfigPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), inventoryFile)
}

// ResolveInventoryPath picks the inventory path: explicit flag first, then
// defaults.inventory_path, then edge.toml next to the config file.
func ResolveInventoryPath(flagPath string, cfg Config, configPath string) string {
	switch {
	case flagPath != "":
		return filepath.Clean(flagPath)
	case cfg.Defaults.InventoryPath != "":
		return filepath.Clean(cfg.Defaults.InventoryPath)
	case configPath != "":
		return InventoryPathFromConfigPath(configPath)
	}
	return ""
}

// orDefault cleans path, falling back to the default file name.
func orDefault(path, name string) (string, error) {
	if path == "" {
		return defaultFile(name)
	}
	return filepath.Clean(path), nil
}

// decodeFile decodes path into v. A missing file leaves v untouched.
func decodeFile(path string, v any) error {
	st, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case st.IsDir():
		return fmt.Errorf("%s: %w", path, ErrIsDir)
	}
	if _, err := toml.DecodeFile(path, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Load reads config.toml. A missing file yields DefaultConfig. The returned
// path is the file actually consulted.
func Load(path string) (Config, string, error) {
	path, err := orDefault(path, configFile)
	if err != nil {
		return DefaultConfig(), "", err
	}
	cfg := DefaultConfig()
	if err := decodeFile(path, &cfg); err != nil {
		return DefaultConfig(), path, err
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Defaults.ActionTimeout <= 0 {
		cfg.Defaults.ActionTimeout = DefaultActionTimeout
	}
	return cfg, path, nil
}

// Save atomically writes cfg and returns the path written.
func Save(path string, cfg Config) (string, error) {
	path, err := orDefault(path, configFile)
	if err != nil {
		return "", err
	}
	cfg.Version = 1
	return path, writeAtomic(path, cfg)
}

// LoadInventory loads tags, endpoints and groups. A missing file yields an
// empty inventory; a file that fails Check is an error.
func LoadInventory(path string) (Inventory, string, error) {
	path, err := orDefault(path, inventoryFile)
	if err != nil {
		return DefaultInventory(), "", err
	}
	inv := DefaultInventory()
	if err := decodeFile(path, &inv); err != nil {
		return DefaultInventory(), path, err
	}
	if inv.Version == 0 {
		inv.Version = 1
	}
	if err := Check(inv); err != nil {
		return DefaultInventory(), path, fmt.Errorf("inventory: %w", err)
	}
	return inv, path, nil
}

// SaveInventory atomically writes inv and returns the path written.
func SaveInventory(path string, inv Inventory) (string, error) {
	path, err := orDefault(path, inventoryFile)
	if err != nil {
		return "", err
	}
	inv.Version = 1
	return path, writeAtomic(path, inv)
}

// writeAtomic encodes v into a temp file beside path, then renames it over
// path. Files are private to the user.
func writeAtomic(path string, v any) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = tmp.Chmod(0o600); err != nil {
		return err
	}
	if err = toml.NewEncoder(tmp).Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	// #nosec G703 -- path is cleaned by orDefault.
	return os.Rename(tmpPath, path)
}

package config

import "github.com/al-bashkir/edge-groups/internal/edge"

const DefaultActionTimeout = 10 // seconds

type Config struct {
	Version  int      `toml:"version"`
	Defaults Defaults `toml:"defaults"`
}

type Defaults struct {
	AccentColor   string `toml:"accent_color"`   // preset name or color code
	ConfirmQuit   bool   `toml:"confirm_quit"`   // ask before quitting
	InventoryPath string `toml:"inventory_path"` // edge.toml; empty means next to config.toml
	LogFile       string `toml:"log_file"`       // used with --debug
	ActionTimeout int    `toml:"action_timeout"` // seconds allowed for a save/delete
}

// Inventory holds the tags, endpoints and edge groups.
// Example TOML:
//
//	[[tags]]
//	id = 1
//	name = "env:prod"
//
//	[[endpoints]]
//	id = 1
//	name = "edge-01"
//	url = "tcp://10.0.0.1:9001"
//	tag_ids = [1]
//
//	[[groups]]
//	id = 1
//	name = "prod-edges"
//	dynamic = true
//	tag_ids = [1]
type Inventory struct {
	Version   int             `toml:"version"`
	Tags      []edge.Tag      `toml:"tags"`
	Endpoints []edge.Endpoint `toml:"endpoints"`
	Groups    []edge.Group    `toml:"groups"`
}

func DefaultConfig() Config {
	return Config{
		Version: 1,
		Defaults: Defaults{
			AccentColor:   "",
			ConfirmQuit:   false,
			InventoryPath: "",
			LogFile:       "",
			ActionTimeout: DefaultActionTimeout,
		},
	}
}

func DefaultInventory() Inventory {
	return Inventory{Version: 1}
}

// ReferenceData returns the tags and endpoints a group form selects from.
func (inv Inventory) ReferenceData() edge.ReferenceData {
	return edge.ReferenceData{
		Tags:      append([]edge.Tag(nil), inv.Tags...),
		Endpoints: append([]edge.Endpoint(nil), inv.Endpoints...),
	}
}

package model

import "fmt"

// Namespace prefixes every storage slot key and broadcast topic so that
// paneldock state never collides with other tenants of the same store.
const Namespace = "paneldock"

// PluginID identifies one dashboard plugin. It namespaces both the settings
// storage slot and the change-broadcast topic; two different plugin IDs never
// observe each other's updates.
type PluginID string

const (
	PluginSlack  PluginID = "slack"
	PluginGitHub PluginID = "github"
	PluginLinear PluginID = "linear"
)

// AllPlugins lists every plugin identity known to this build, in display order.
var AllPlugins = []PluginID{PluginSlack, PluginGitHub, PluginLinear}

// Valid reports whether id names a known plugin.
func (id PluginID) Valid() bool {
	switch id {
	case PluginSlack, PluginGitHub, PluginLinear:
		return true
	}
	return false
}

// SlotKey returns the storage slot key for a plugin's settings record.
// One slot per plugin, shared by every mounted controller instance.
func SlotKey(id PluginID) string {
	return fmt.Sprintf("%s:%s:settings", Namespace, id)
}

// Topic returns the broadcast topic on which settings changes for a plugin
// are announced.
func Topic(id PluginID) string {
	return fmt.Sprintf("%s-%s-settings-change", Namespace, id)
}

// Package config loads the optional YAML settings file of the integrity
// checker. Every setting has a default, so running without a file behaves
// exactly like running with an empty one.
package config

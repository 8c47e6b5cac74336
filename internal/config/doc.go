// Package config loads and merges treesel settings.
//
// Settings come from layers, lowest priority first:
//
//	defaults     built in
//	file         treesel.toml or treesel.yaml
//	environment  TREESEL_* variables
//	session      values set at runtime, e.g. from flags
//
// Typed sections (Selection, Keymaps, Logging, Parser) read the merged
// result. With WithWatcher the file is reloaded when it changes and
// OnChange handlers are told about the new configuration.
//
// Basic usage:
//
//	cfg := config.New(config.WithFile(config.DefaultPath()))
//	if err := cfg.Load(ctx); err != nil {
//		return err
//	}
//	pairs := cfg.Selection().Pairs
package config

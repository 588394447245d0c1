// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package config loads rangecache.Config from YAML, the configuration
// loader the core spec treats as an external collaborator. It follows the
// same idiom as cloudeng.io/cmdutil/cmdyaml: a thin wrapper around
// gopkg.in/yaml.v3 that improves error reporting on parse failure.
package config

import (
	"context"
	"fmt"

	"cloudeng.io/cmdutil/cmdyaml"
	"cloudeng.io/rangecache"
)

// File represents the on-disk YAML shape; it embeds rangecache.Config
// directly since the spec's enumerated configuration fields are exactly
// what a deployment needs to set.
type File struct {
	rangecache.Config `yaml:",inline"`
}

// Load reads and parses a rangecache.Config from the YAML file at path
// using cmdutil/cmdyaml.ParseConfigFile, so configuration can also be read
// from any fs.ReadFileFS registered on ctx (e.g. an embed.FS), not just the
// local filesystem.
func Load(ctx context.Context, path string) (rangecache.Config, error) {
	var f File
	if err := cmdyaml.ParseConfigFile(ctx, path, &f); err != nil {
		return rangecache.Config{}, fmt.Errorf("config: %w", err)
	}
	return f.Config, nil
}

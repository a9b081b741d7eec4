package config

import (
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

const exampleConfig = `# folio site configuration.
# ${VAR} references are expanded from the environment and from .env files
# next to this file.
site:
  title: "My Portfolio"
  base_url: "https://example.com"
  author: "${FOLIO_AUTHOR}"

content:
  directory: content
  static_directory: static
  git_lastmod: false

markdown:
  highlight_theme: monokai
  line_numbers: false
  recognized_languages: [bash, go, javascript, json, python, rust, typescript, yaml]
  extensions: [gfm, footnote, typographer]

plugins:
  enabled: [markdown-extensions, link-rewrite, icons, external-links, compress]
  compress:
    min_bytes: 1024

output:
  directory: public
  mode: static
  clean: true

deployment:
  adapter: none

build:
  fail_fast: false
  drafts: false

logging:
  level: info
  format: text
`

// skeleton is the starter content written by Init, keyed by path relative to
// the site directory.
var skeleton = map[string]string{
	"content/about.md": `---
title: About
---

Hello! This page lives at /about/.
`,
	"content/works/example-co.md": `---
title: Software Engineer
date: 2021 - present
org: Example Co
location: Remote
tags: [go, react]
---

Building the things that build the things.
`,
	"content/projects/folio.md": `---
title: folio
url: https://example.com/folio
tags: [go]
---

The generator that built this site. See the [first post](../posts/hello-world.md).
`,
	"content/posts/hello-world.md": "---\n" +
		"title: Hello, world\n" +
		"date: 2024-01-15\n" +
		"tags: [python]\n" +
		"description: The first post.\n" +
		"---\n\n" +
		"A first post with some code ![](icon:code)\n\n" +
		"```python\n" +
		"def greet(name):\n" +
		"    return f\"hello {name}\"\n" +
		"```\n",
	"static/.gitkeep": "",
}

// Init writes an example configuration and starter content into dir. Existing
// files are only overwritten when force is set.
func Init(fs afero.Fs, dir string, force bool) ([]string, error) {
	configPath := filepath.Join(dir, DefaultFilename)
	if exists, err := afero.Exists(fs, configPath); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat config file").WithContext("path", configPath).Build()
	} else if exists && !force {
		return nil, errors.ConfigError("config file already exists").
			WithContext("path", configPath).
			WithContext("hint", "use --force to overwrite").
			UserAction().
			Build()
	}

	files := map[string]string{DefaultFilename: exampleConfig}
	for rel, body := range skeleton {
		files[rel] = body
	}

	var written []string
	keys := lo.Keys(files)
	sort.Strings(keys)
	for _, rel := range keys {
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if rel != DefaultFilename && !force {
			if exists, _ := afero.Exists(fs, target); exists {
				continue
			}
		}
		if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").WithContext("path", filepath.Dir(target)).Build()
		}
		// #nosec G306 -- site sources are meant to be world-readable
		if err := afero.WriteFile(fs, target, []byte(files[rel]), 0o644); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").WithContext("path", target).Build()
		}
		written = append(written, rel)
	}
	return written, nil
}

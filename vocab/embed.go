// Package vocab embeds the default research-interest vocabulary so the binary
// works without a mapping file on disk.
//
// Usage:
//
//	mapping.LoadFS(vocab.FS, vocab.Default)
package vocab

import "embed"

// Default is the path of the bundled vocabulary inside FS.
const Default = "v1/research.yaml"

//go:embed v1/*.yaml
var FS embed.FS

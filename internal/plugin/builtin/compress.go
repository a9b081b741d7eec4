package builtin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/plugin"
)

// DefaultCompressMinBytes is used when no threshold is configured.
const DefaultCompressMinBytes = 1024

var compressibleExt = map[string]struct{}{
	".html": {},
	".css":  {},
	".js":   {},
	".svg":  {},
	".xml":  {},
	".json": {},
	".txt":  {},
}

// compress writes precompressed .gz and .br siblings next to text artifacts
// so static hosts can serve them directly.
type compress struct {
	minBytes int
}

func newCompress(s plugin.Settings) (plugin.Plugin, error) {
	minBytes := s.CompressMinBytes
	if minBytes <= 0 {
		minBytes = DefaultCompressMinBytes
	}
	return &compress{minBytes: minBytes}, nil
}

func (p *compress) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        NameCompress,
		Description: "gzip and brotli siblings for text artifacts",
		Stage:       plugin.StageArtifact,
	}
}

func (p *compress) ProcessArtifact(ctx context.Context, a plugin.Artifact) error {
	if _, ok := compressibleExt[strings.ToLower(filepath.Ext(a.Path))]; !ok {
		return removeSiblings(a)
	}
	if len(a.Content) < p.minBytes {
		return removeSiblings(a)
	}

	gz, err := gzipBytes(a.Content)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(a.Fs, a.Path+".gz", gz, 0o644); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	br, err := brotliBytes(a.Content)
	if err != nil {
		return err
	}
	return afero.WriteFile(a.Fs, a.Path+".br", br, 0o644)
}

// removeSiblings drops .gz and .br files left by an earlier build.
func removeSiblings(a plugin.Artifact) error {
	for _, ext := range []string{".gz", ".br"} {
		if err := a.Fs.Remove(a.Path + ext); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func brotliBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

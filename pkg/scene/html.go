package scene

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"

	"github.com/graphscape/graphscape/pkg/errors"
)

// WriteJSON writes the machine-readable scene artifact.
func WriteJSON(s *Scene, path string) error {
	data, err := MarshalScene(s)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// RenderHTML produces the self-contained interactive artifact: inline CSS,
// an inline canvas renderer, and the scene JSON embedded in the page. The
// result opens offline in any browser; nothing is fetched from a CDN.
func RenderHTML(s *Scene) ([]byte, error) {
	data, err := MarshalScene(s)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title:       s.Title,
		Placeholder: s.Placeholder,
		Stats:       s.Stats,
		Legend:      s.Legend,
		EdgeLegend:  s.EdgeLegend,
		SceneJSON:   template.JS(data),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to render html template")
	}
	return buf.Bytes(), nil
}

// WriteHTML renders and atomically writes the interactive artifact.
func WriteHTML(s *Scene, path string) error {
	data, err := RenderHTML(s)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// WriteArtifact atomically writes pre-rendered artifact bytes to path.
func WriteArtifact(path string, data []byte) error {
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes via a temp file in the target directory followed
// by a rename, so readers never observe a partial artifact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeExportIO, err, "failed to create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".graphscape-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportIO, err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeExportIO, err, "failed to write artifact %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeExportIO, err, "failed to flush artifact %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeExportIO, err, "failed to finalize artifact %s", path)
	}
	return nil
}

type pageData struct {
	Title       string
	Placeholder bool
	Stats       Stats
	Legend      []LegendEntry
	EdgeLegend  []LegendEntry
	SceneJSON   template.JS
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

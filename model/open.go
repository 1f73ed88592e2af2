package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open loads a model file, picking the loader from the extension.
func Open(path string) (Model, error) {
	return OpenWith(path, OBJOptions{})
}

// OpenWith is Open with options for Wavefront files.
func OpenWith(path string, obj OBJOptions) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(path)

	var m *Memory
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ifcjson":
		m, err = LoadJSON(name, f)
	case ".obj":
		m, err = LoadOBJ(name, f, obj)
	case ".ifc":
		return nil, fmt.Errorf("%s: STEP files need tessellating first, export to .json or .obj", name)
	default:
		return nil, fmt.Errorf("%s: unsupported model format %q", name, filepath.Ext(path))
	}

	if err != nil {
		return nil, err
	}
	return m, nil
}

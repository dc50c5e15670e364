// Package io loads and stores scenes as gob encoded zip archives.
package io

import (
	"fmt"
	"strings"

	"github.com/achilleasa/polaris-gbuf/asset"
	"github.com/achilleasa/polaris-gbuf/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition.
	Read() (*scene.Scene, error)
}

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write scene definition.
	Write(*scene.Scene) error
}

// Read a scene. The location may be the name of a built-in scene prefixed
// with "builtin:" or the path/URL of a scene archive.
func ReadScene(location string) (*scene.Scene, error) {
	if strings.HasPrefix(location, builtinPrefix) {
		return scene.Builtin(strings.TrimPrefix(location, builtinPrefix))
	}
	if !strings.HasSuffix(location, ".zip") {
		return nil, fmt.Errorf("readScene: unsupported file format")
	}

	res, err := asset.NewResource(location, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newZipSceneReader(res).Read()
}

// Write a scene archive.
func WriteScene(sc *scene.Scene, filename string) error {
	if !strings.HasSuffix(filename, ".zip") {
		return fmt.Errorf("writeScene: unsupported file format")
	}
	return newZipSceneWriter(filename).Write(sc)
}

const builtinPrefix = "builtin:"

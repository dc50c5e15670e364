package io

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/achilleasa/polaris-gbuf/asset"
	"github.com/achilleasa/polaris-gbuf/log"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/types"
)

const (
	primFile   = "primitives.bin"
	matFile    = "materials.bin"
	cameraFile = "camera.bin"
	skyFile    = "sky.bin"
	nameFile   = "name.bin"
	portalFile = "portal.bin"
)

type skyData struct {
	Zenith  types.Vec3
	Horizon types.Vec3
}

type zipSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new zip scene writer
func newZipSceneWriter(sceneFile string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:    log.New("zipSceneWriter"),
		sceneFile: sceneFile,
	}
}

// Write scene definition to zip file.
func (w *zipSceneWriter) Write(sc *scene.Scene) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	w.logger.Noticef("writing compressed scene to %s", w.sceneFile)
	start := time.Now()

	zipFile, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	entries := []struct {
		name string
		data interface{}
	}{
		{nameFile, sc.Name},
		{primFile, sc.Primitives},
		{matFile, sc.Materials},
		{cameraFile, sc.Camera},
		{skyFile, skyData{Zenith: sc.SkyZenith, Horizon: sc.SkyHorizon}},
		{portalFile, sc.Portal},
	}
	for _, entry := range entries {
		cw, err := zw.Create(entry.name)
		if err != nil {
			return err
		}
		if err = gob.NewEncoder(cw).Encode(entry.data); err != nil {
			return fmt.Errorf("zipSceneWriter: failed to encode %s: %w", entry.name, err)
		}
	}
	if err = zw.Close(); err != nil {
		return err
	}

	w.logger.Noticef("compressed scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	return nil
}

type zipSceneReader struct {
	logger log.Logger
	res    *asset.Resource
}

// Create a new zip scene reader.
func newZipSceneReader(res *asset.Resource) *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zipSceneReader"),
		res:    res,
	}
}

// Read scene definition from zip file.
func (p *zipSceneReader) Read() (*scene.Scene, error) {
	p.logger.Noticef("parsing compiled scene from %s", p.res.Path())
	start := time.Now()

	// Zip readers need random access; remote archives are buffered in memory
	data, err := ioutil.ReadAll(p.res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zipSceneReader: %w", err)
	}

	sc := scene.NewScene("")
	var sky skyData
	var target interface{}
	for _, f := range zr.File {
		switch f.Name {
		case nameFile:
			target = &sc.Name
		case primFile:
			target = &sc.Primitives
		case matFile:
			target = &sc.Materials
		case cameraFile:
			target = &sc.Camera
		case skyFile:
			target = &sky
		case portalFile:
			target = &sc.Portal
		default:
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		err = gob.NewDecoder(rc).Decode(target)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zipSceneReader: failed to load %s: %w", f.Name, err)
		}
	}

	if sky != (skyData{}) {
		sc.SkyZenith, sc.SkyHorizon = sky.Zenith, sky.Horizon
	}
	if err = sc.Validate(); err != nil {
		return nil, fmt.Errorf("zipSceneReader: %w", err)
	}

	p.logger.Noticef("loaded scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	return sc, nil
}

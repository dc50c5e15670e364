package io

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/polaris-gbuf/scene"
)

func TestSceneArchiveRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "polaris-gbuf")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	src, err := ReadScene("builtin:pool")
	if err != nil {
		t.Fatal(err)
	}

	archive := filepath.Join(dir, "pool.zip")
	if err = WriteScene(src, archive); err != nil {
		t.Fatal(err)
	}

	dst, err := ReadScene(archive)
	if err != nil {
		t.Fatal(err)
	}

	if dst.Name != src.Name {
		t.Fatalf("expected scene name %q; got %q", src.Name, dst.Name)
	}
	if len(dst.Primitives) != len(src.Primitives) || len(dst.Materials) != len(src.Materials) {
		t.Fatalf("expected %d primitives and %d materials; got %d and %d", len(src.Primitives), len(src.Materials), len(dst.Primitives), len(dst.Materials))
	}
	for index, prim := range src.Primitives {
		got := dst.Primitives[index]
		if got.Flags != prim.Flags || got.CustomIndex != prim.CustomIndex || got.Origin != prim.Origin || got.MaterialIndex != prim.MaterialIndex {
			t.Fatalf("[prim %d] expected %+v; got %+v", index, prim, got)
		}
	}
	if dst.Camera.Position != src.Camera.Position || dst.Camera.ViewMat != src.Camera.ViewMat {
		t.Fatalf("expected camera %v; got %v", src.Camera, dst.Camera)
	}
	if dst.SkyZenith != src.SkyZenith {
		t.Fatalf("expected sky zenith %v; got %v", src.SkyZenith, dst.SkyZenith)
	}

	if _, err = scene.NewWorld(dst); err != nil {
		t.Fatalf("unexpected error building world from archive: %v", err)
	}
}

func TestUnsupportedFormats(t *testing.T) {
	if _, err := ReadScene("scene.obj"); err == nil {
		t.Fatal("expected an error reading an unsupported format")
	}
	if err := WriteScene(scene.NewScene("x"), "scene.obj"); err == nil {
		t.Fatal("expected an error writing an unsupported format")
	}
}

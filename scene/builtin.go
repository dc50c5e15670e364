package scene

import (
	"fmt"
	"sort"

	"github.com/achilleasa/polaris-gbuf/media"
	"github.com/achilleasa/polaris-gbuf/types"
)

type builtinFn func() *Scene

var builtins = map[string]builtinFn{
	"pool":   poolScene,
	"portal": portalScene,
	"glass":  glassScene,
	"mirror": mirrorScene,
}

// Get the names of the built-in scenes.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build a named built-in scene.
func Builtin(name string) (*Scene, error) {
	fn, exists := builtins[name]
	if !exists {
		return nil, fmt.Errorf("scene: unknown built-in scene '%s'", name)
	}
	sc := fn()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Add a horizontal quad facing up (or down if flipped).
func horizontalQuad(center types.Vec3, size float32, flip bool) *Primitive {
	half := size * 0.5
	origin := center.Sub(types.Vec3{half, 0, half})
	u, v := types.Vec3{0, 0, size}, types.Vec3{size, 0, 0}
	if flip {
		u, v = v, u
	}
	return NewQuad(origin, u, v)
}

func mustAdd(sc *Scene, mat *Material, prims ...*Primitive) {
	known := false
	for _, m := range sc.Materials {
		known = known || m == mat
	}
	if !known {
		if err := sc.AddMaterial(mat); err != nil {
			panic(err)
		}
	}
	for _, prim := range prims {
		if err := sc.AddPrimitive(prim, mat); err != nil {
			panic(err)
		}
	}
}

func defaultCamera(pos, lookAt types.Vec3) *Camera {
	cam := NewCamera(60)
	cam.Position = pos
	cam.LookAt = lookAt
	cam.Update()
	return cam
}

// A pool filled with water; the water surface reflects and refracts.
func poolScene() *Scene {
	sc := NewScene("pool")
	sc.SetCamera(defaultCamera(types.Vec3{0, 3, 8}, types.Vec3{0, 0, 0}))

	tiles := &Material{
		Name:          "tiles",
		Albedo:        types.Vec3{0.9, 0.9, 0.9},
		CheckerScale:  2,
		CheckerAlbedo: types.Vec3{0.1, 0.3, 0.6},
		Roughness:     0.6,
	}
	water := &Material{Name: "water", Albedo: types.Vec3{0.8, 0.95, 1}, Roughness: 0.02}
	ball := &Material{Name: "ball", Albedo: types.Vec3{0.9, 0.2, 0.1}, Roughness: 0.3}

	floor := NewBox(types.Vec3{-5, -3, -5}, types.Vec3{10, 0.5, 10})
	floor.Name = "pool floor"
	mustAdd(sc, tiles, floor)

	surface := horizontalQuad(types.Vec3{0, -0.2, 0}, 10, false)
	surface.Name = "water surface"
	surface.Flags = FlagsWithMedia(GeomInstFlagRefract|GeomInstFlagReflect, media.Water)
	surface.CustomIndex = CustomIndexFlagReflectRefract
	mustAdd(sc, water, surface)

	sphere := NewSphere(types.Vec3{1, 1, -1}, 1)
	sphere.Name = "ball"
	sphere.CustomIndex = CustomIndexFlagDynamic
	sphere.Motion = types.Vec3{0, 0.05, 0}
	mustAdd(sc, ball, sphere)

	submerged := NewSphere(types.Vec3{-2, -2, 0}, 0.5)
	submerged.Name = "submerged ball"
	submerged.Sector = 1
	mustAdd(sc, ball, submerged)

	return sc
}

// A portal in front of the camera opening into a room placed far away.
func portalScene() *Scene {
	sc := NewScene("portal")
	sc.SetCamera(defaultCamera(types.Vec3{0, 1, 6}, types.Vec3{0, 1, 0}))

	gray := &Material{Name: "gray", Albedo: types.Vec3{0.6, 0.6, 0.6}, CheckerScale: 1, CheckerAlbedo: types.Vec3{0.3, 0.3, 0.3}}
	tint := &Material{Name: "portal tint", Albedo: types.Vec3{0.9, 0.8, 1}, Emission: 0.1}
	room := &Material{Name: "room", Albedo: types.Vec3{0.2, 0.7, 0.3}}

	floor := horizontalQuad(types.Vec3{0, 0, 0}, 20, false)
	floor.Name = "floor"
	mustAdd(sc, gray, floor)

	// Facing +z towards the camera
	portal := NewQuad(types.Vec3{-1, 0, 0}, types.Vec3{2, 0, 0}, types.Vec3{0, 2.5, 0})
	portal.Name = "portal"
	portal.Flags = GeomInstFlagPortal
	portal.CustomIndex = CustomIndexFlagReflectRefract
	mustAdd(sc, tint, portal)

	// Rays entering the portal continue 100 units along +x
	sc.Portal = Portal{
		InputPosition: types.Vec3{0, 1.25, 0},
		Translation:   types.Vec3{100, 0, 0},
		Rotation:      types.QuatIdent(),
	}

	exit := NewBox(types.Vec3{98, 0, -5}, types.Vec3{4, 3, 1})
	exit.Name = "room wall"
	exit.Sector = 2
	pillar := NewSphere(types.Vec3{100, 1, -2}, 0.75)
	pillar.Name = "room ball"
	pillar.Sector = 2
	mustAdd(sc, room, exit, pillar)

	return sc
}

// A solid glass block. Its faces do not change the media so the camera can
// look through it from the inside.
func glassScene() *Scene {
	sc := NewScene("glass")
	sc.SetCamera(defaultCamera(types.Vec3{0, 1.5, 5}, types.Vec3{0, 0.5, 0}))

	gray := &Material{Name: "gray", Albedo: types.Vec3{0.7, 0.7, 0.7}, CheckerScale: 2, CheckerAlbedo: types.Vec3{0.2, 0.2, 0.2}}
	glass := &Material{Name: "glass", Albedo: types.Vec3{0.95, 0.95, 1}, Roughness: 0.01}

	floor := horizontalQuad(types.Vec3{0, 0, 0}, 20, false)
	floor.Name = "floor"
	mustAdd(sc, gray, floor)

	block := NewBox(types.Vec3{-1, 0, -1}, types.Vec3{2, 1.5, 2})
	block.Name = "glass block"
	block.Flags = FlagsWithMedia(GeomInstFlagRefract|GeomInstFlagReflect|GeomInstFlagNoMediaChange|GeomInstFlagReflRefrAlbedoMult, media.Glass)
	block.CustomIndex = CustomIndexFlagReflectRefract
	mustAdd(sc, glass, block)

	return sc
}

// Two facing mirrors.
func mirrorScene() *Scene {
	sc := NewScene("mirror")
	sc.SetCamera(defaultCamera(types.Vec3{0, 1, 3}, types.Vec3{0.3, 1, 0}))

	gray := &Material{Name: "gray", Albedo: types.Vec3{0.5, 0.5, 0.5}, CheckerScale: 1, CheckerAlbedo: types.Vec3{0.9, 0.9, 0.9}}
	mirror := &Material{Name: "mirror", Albedo: types.Vec3{0.9, 0.9, 0.9}, Metallic: 1}
	ball := &Material{Name: "ball", Albedo: types.Vec3{0.1, 0.4, 0.9}}

	floor := horizontalQuad(types.Vec3{0, 0, 0}, 20, false)
	floor.Name = "floor"
	mustAdd(sc, gray, floor)

	// Both mirrors face the center of the room
	left := NewQuad(types.Vec3{-3, 0, -2}, types.Vec3{0, 3, 0}, types.Vec3{0, 0, 4})
	left.Name = "left mirror"
	right := NewQuad(types.Vec3{3, 0, 2}, types.Vec3{0, 3, 0}, types.Vec3{0, 0, -4})
	right.Name = "right mirror"
	for _, m := range []*Primitive{left, right} {
		m.Flags = GeomInstFlagReflect | GeomInstFlagReflRefrAlbedoMult
		m.CustomIndex = CustomIndexFlagReflectRefract
	}
	mustAdd(sc, mirror, left, right)

	sphere := NewSphere(types.Vec3{0, 0.75, -0.5}, 0.75)
	sphere.Name = "ball"
	mustAdd(sc, ball, sphere)

	return sc
}

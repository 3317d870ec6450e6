package loaders

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// metallicCutoff is the metallicFactor at or above which a glTF material renders as metal
const metallicCutoff = 0.5

// defaultGLTFCamera frames a scene authored around the origin
var defaultGLTFCamera = renderer.CameraConfig{
	Center:      core.NewVec3(0, 1, 5),
	LookAt:      core.NewVec3(0, 0, 0),
	Up:          core.NewVec3(0, 1, 0),
	Width:       400,
	AspectRatio: 16.0 / 9.0,
	VFov:        40.0,
}

// LoadGLTFScene loads a .gltf or .glb file as a sphere scene.
// Every node that references a mesh becomes one sphere at the node's translation,
// sized by its largest scale component. Materials map from the mesh's first primitive.
func LoadGLTFScene(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := scene.New(name, defaultGLTFCamera, renderer.DefaultSamplingConfig())

	for i, node := range doc.Nodes {
		if node.Camera != nil {
			s.CameraConfig = applyGLTFCamera(doc, node, s.CameraConfig)
		}
		if node.Mesh == nil {
			continue
		}
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d: mesh index %d out of range", i, *node.Mesh)
		}

		radius := nodeRadius(node)
		if radius == 0 {
			return nil, fmt.Errorf("node %d: zero scale", i)
		}

		mat, err := meshMaterial(doc, doc.Meshes[*node.Mesh])
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}

		center := core.NewVec3(node.Translation[0], node.Translation[1], node.Translation[2])
		s.Add(geometry.NewSphere(center, radius, mat))
	}

	if s.World.Len() == 0 {
		return nil, fmt.Errorf("gltf %s: no mesh nodes", filepath.Base(path))
	}

	return s, nil
}

// nodeRadius returns the largest absolute scale component, treating an unset scale as 1
func nodeRadius(node *gltf.Node) float64 {
	scale := node.Scale
	if scale == [3]float64{} {
		return 1.0
	}
	return math.Max(math.Abs(scale[0]), math.Max(math.Abs(scale[1]), math.Abs(scale[2])))
}

// meshMaterial converts the first primitive's material
func meshMaterial(doc *gltf.Document, mesh *gltf.Mesh) (material.Material, error) {
	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	if len(mesh.Primitives) == 0 || mesh.Primitives[0].Material == nil {
		return gray, nil
	}

	index := *mesh.Primitives[0].Material
	if index < 0 || index >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", index)
	}
	m := doc.Materials[index]

	// Glass is flagged by an index of refraction in the material extras
	if ior, ok := extrasIOR(m.Extras); ok {
		return material.NewDielectric(ior), nil
	}

	baseColor := core.NewVec3(1, 1, 1)
	metallic, roughness := 1.0, 1.0 // glTF defaults
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			c := *pbr.BaseColorFactor
			baseColor = core.NewVec3(c[0], c[1], c[2])
		}
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
	} else {
		return gray, nil
	}

	if metallic >= metallicCutoff {
		return material.NewMetal(baseColor, roughness), nil
	}
	return material.NewLambertian(baseColor), nil
}

// extrasIOR reads a positive "ior" number from material extras
func extrasIOR(extras any) (float64, bool) {
	var fields map[string]any
	switch e := extras.(type) {
	case map[string]any:
		fields = e
	case json.RawMessage:
		if err := json.Unmarshal(e, &fields); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	ior, ok := fields["ior"].(float64)
	if !ok || ior <= 0 {
		return 0, false
	}
	return ior, true
}

// applyGLTFCamera places the eye at a camera node and adopts its vertical field of view.
// glTF cameras look down their local -Z axis with +Y up, rotated by the node's quaternion.
func applyGLTFCamera(doc *gltf.Document, node *gltf.Node, config renderer.CameraConfig) renderer.CameraConfig {
	config.Center = core.NewVec3(node.Translation[0], node.Translation[1], node.Translation[2])
	config.LookAt = config.Center.Add(rotateByQuaternion(node.Rotation, core.NewVec3(0, 0, -1)))
	config.Up = rotateByQuaternion(node.Rotation, core.NewVec3(0, 1, 0))

	index := *node.Camera
	if index >= 0 && index < len(doc.Cameras) {
		if p := doc.Cameras[index].Perspective; p != nil && p.Yfov > 0 {
			config.VFov = p.Yfov * 180.0 / math.Pi
		}
	}
	return config
}

// rotateByQuaternion rotates v by the unit quaternion q stored as (x, y, z, w).
// A zero quaternion is treated as the identity.
func rotateByQuaternion(q [4]float64, v core.Vec3) core.Vec3 {
	axis := core.NewVec3(q[0], q[1], q[2])
	norm := math.Sqrt(axis.LengthSquared() + q[3]*q[3])
	if norm == 0 {
		return v
	}
	axis = axis.Multiply(1 / norm)
	w := q[3] / norm

	// v' = v + 2w(q×v) + 2q×(q×v)
	t := axis.Cross(v).Multiply(2)
	return v.Add(t.Multiply(w)).Add(axis.Cross(t))
}

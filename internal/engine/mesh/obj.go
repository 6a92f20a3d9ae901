// Package mesh loads triangle meshes from Wavefront OBJ files.
// Assets are authored Y-up; the loader converts every position and
// normal into the engine's Z-up frame via (x, y, z) -> (x, -z, y).
package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Vertex is one corner of a triangle with its shading attributes.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Data is a triangulated mesh ready for upload or collision use.
type Data struct {
	Vertices []Vertex
	Indices  []uint32
}

// Load reads and parses an OBJ file.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mesh %s: %w", path, err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing mesh %s: %w", path, err)
	}
	return d, nil
}

// Parse reads OBJ text. Supported statements: v, vn, vt, f. Faces may
// reference positions alone or position/uv/normal triples; quads and
// larger polygons are fan-triangulated.
func Parse(r io.Reader) (*Data, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       []math.Vec2
	)
	d := &Data{}

	// Identical corner references share one vertex.
	corners := make(map[string]uint32)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, yUpToZUp(p))
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, yUpToZUp(n))
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: uv needs 2 values", lineNo)
			}
			u, err1 := parseFloat(fields[1])
			v, err2 := parseFloat(fields[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad uv", lineNo)
			}
			uvs = append(uvs, math.Vec2{X: u, Y: v})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 corners", lineNo)
			}
			idx := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				vi, err := resolveCorner(d, corners, ref, positions, normals, uvs)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, vi)
			}
			// Fan triangulation; a quad becomes two triangles.
			for i := 1; i < len(idx)-1; i++ {
				d.Indices = append(d.Indices, idx[0], idx[i], idx[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// yUpToZUp maps an asset-space vector into the engine frame.
func yUpToZUp(v math.Vec3) math.Vec3 {
	return math.Vec3{X: v.X, Y: -v.Z, Z: v.Y}
}

func resolveCorner(d *Data, corners map[string]uint32, ref string, positions, normals []math.Vec3, uvs []math.Vec2) (uint32, error) {
	if vi, ok := corners[ref]; ok {
		return vi, nil
	}

	parts := strings.Split(ref, "/")
	var v Vertex

	pi, err := objIndex(parts[0], len(positions))
	if err != nil {
		return 0, fmt.Errorf("face corner %q: %w", ref, err)
	}
	v.Position = positions[pi]

	if len(parts) > 1 && parts[1] != "" {
		ti, err := objIndex(parts[1], len(uvs))
		if err != nil {
			return 0, fmt.Errorf("face corner %q: %w", ref, err)
		}
		v.UV = uvs[ti]
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := objIndex(parts[2], len(normals))
		if err != nil {
			return 0, fmt.Errorf("face corner %q: %w", ref, err)
		}
		v.Normal = normals[ni]
	}

	vi := uint32(len(d.Vertices))
	d.Vertices = append(d.Vertices, v)
	corners[ref] = vi
	return vi, nil
}

// objIndex converts a 1-based or negative OBJ index into a slice index.
func objIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if n < 0 {
		n = count + n
	} else {
		n--
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("index %s out of range (%d elements)", s, count)
	}
	return n, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("need 3 values, got %d", len(fields))
	}
	x, err1 := parseFloat(fields[0])
	y, err2 := parseFloat(fields[1])
	z, err3 := parseFloat(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return math.Vec3{}, fmt.Errorf("bad float in %v", fields[:3])
	}
	return math.Vec3{X: x, Y: y, Z: z}, nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}

// Triangles returns the face list as position triples, for collision
// shapes.
func (d *Data) Triangles() [][3]math.Vec3 {
	out := make([][3]math.Vec3, 0, len(d.Indices)/3)
	for i := 0; i+2 < len(d.Indices); i += 3 {
		out = append(out, [3]math.Vec3{
			d.Vertices[d.Indices[i]].Position,
			d.Vertices[d.Indices[i+1]].Position,
			d.Vertices[d.Indices[i+2]].Position,
		})
	}
	return out
}

// Interleaved packs the vertices as position, normal, uv float32
// triplets for a GPU vertex buffer.
func (d *Data) Interleaved() []float32 {
	out := make([]float32, 0, len(d.Vertices)*8)
	for _, v := range d.Vertices {
		out = append(out,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.UV.X, v.UV.Y,
		)
	}
	return out
}

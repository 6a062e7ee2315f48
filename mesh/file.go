// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/stage"
)

const (
	floatsPerVertex = 12
	bytesPerVertex  = floatsPerVertex * 4
	headerSize      = 8
)

// Load reads a mesh file into a new mesh.
func Load(path string) (*Mesh, error) {
	m := New(TriMesh)
	if err := m.LoadMesh(path); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadMesh replaces the mesh contents with the file at path. On any error
// the mesh is left unchanged. A missing file yields an error matching
// fs.ErrNotExist; malformed data yields ErrCorrupt. Marks all attribute
// slots dirty on success.
func (m *Mesh) LoadMesh(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return fmt.Errorf("mesh: load %s: %w", path, err)
	}
	if err := m.decode(data); err != nil {
		return fmt.Errorf("mesh: load %s: %w", path, err)
	}
	stage.Logger().Debug("mesh: loaded", "path", path,
		"type", m.meshType.String(), "polygons", len(m.polygons))
	return nil
}

// SaveToFile writes the mesh to path. The file is written to a temporary
// sibling first and renamed into place.
func (m *Mesh) SaveToFile(path string) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("mesh: save %s: %w", path, err)
	}
	tmp := f.Name()
	if err := m.Encode(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("mesh: save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("mesh: save %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("mesh: save %s: %w", path, err)
	}
	return nil
}

// Encode writes the mesh in the binary mesh format.
func (m *Mesh) Encode(w io.Writer) error {
	_, err := w.Write(m.appendBinary(nil))
	return err
}

// Decode replaces the mesh contents with data read from r until EOF.
// On error the mesh is left unchanged.
func (m *Mesh) Decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("mesh: decode: %w", err)
	}
	return m.decode(data)
}

//nolint:gosec // G115: polygon and vertex counts are bounded by memory
func (m *Mesh) appendBinary(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.meshType))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.polygons)))
	for _, p := range m.polygons {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Vertices)))
		for _, v := range p.Vertices {
			for _, f := range [floatsPerVertex]float32{
				v.Position.X, v.Position.Y, v.Position.Z,
				v.Normal.X, v.Normal.Y, v.Normal.Z,
				v.Color.R, v.Color.G, v.Color.B, v.Color.A,
				v.TexCoord.X, v.TexCoord.Y,
			} {
				buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
			}
		}
	}
	return buf
}

// decoder reads little-endian values with bounds checks.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) remaining() int { return len(d.data) - d.pos }

func (d *decoder) uint32() (uint32, error) {
	if d.remaining() < 4 {
		return 0, fmt.Errorf("%w: truncated at offset %d", ErrCorrupt, d.pos)
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) float32() float32 {
	v := math.Float32frombits(binary.LittleEndian.Uint32(d.data[d.pos:]))
	d.pos += 4
	return v
}

func (d *decoder) vertex() Vertex {
	var v Vertex
	v.Position = stage.V3(d.float32(), d.float32(), d.float32())
	v.Normal = stage.V3(d.float32(), d.float32(), d.float32())
	v.Color = stage.RGBA(d.float32(), d.float32(), d.float32(), d.float32())
	v.TexCoord = stage.V2(d.float32(), d.float32())
	return v
}

func (m *Mesh) decode(data []byte) error {
	d := &decoder{data: data}
	rawType, err := d.uint32()
	if err != nil {
		return err
	}
	t := Type(rawType)
	if !t.Valid() {
		return fmt.Errorf("%w: unknown mesh type %d", ErrCorrupt, rawType)
	}
	count, err := d.uint32()
	if err != nil {
		return err
	}
	// Every polygon needs at least its count word.
	if uint64(count)*4 > uint64(d.remaining()) {
		return fmt.Errorf("%w: %d polygons exceed %d remaining bytes", ErrCorrupt, count, d.remaining())
	}

	polys := make([]*Polygon, 0, count)
	for i := range count {
		n, err := d.uint32()
		if err != nil {
			return err
		}
		if uint64(n)*bytesPerVertex > uint64(d.remaining()) {
			return fmt.Errorf("%w: polygon %d: %d vertices exceed %d remaining bytes",
				ErrCorrupt, i, n, d.remaining())
		}
		p := &Polygon{Vertices: make([]Vertex, n)}
		for j := range p.Vertices {
			p.Vertices[j] = d.vertex()
		}
		polys = append(polys, p)
	}
	if d.remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, d.remaining())
	}

	m.replace(t, polys)
	return nil
}

// Package graph implements the CSR-backed edge store and the vertex
// placement scheme (Partition) that the simulated fabric is built over.
package graph

import (
	"encoding/binary"
	"io"
	"os"
	"sort"

	"golang.org/x/xerrors"
)

// ErrGraphFile is returned when the input graph file cannot be opened or
// read (spec.md §7, I/O error — fatal).
var ErrGraphFile = xerrors.New("cannot read graph input file")

// ErrTooManyEdges is returned when a vertex's adjacency list cannot fit in
// its reserved CSR window (spec.md §7, protocol violation — fatal).
var ErrTooManyEdges = xerrors.New("too many edges for vertex")

// RawEdge is one undirected edge as read from the packed binary stream.
type RawEdge struct {
	V0, V1 int64
}

// Edge is one CSR adjacency-list entry: a destination vertex, its degree
// (used by algorithms that need symmetry-breaking over degree, such as
// triangle counting), plus an opaque algorithm-defined data payload.
type Edge struct {
	DestID     VertexID
	DestDegree int64
	Data       interface{}
}

// Graph holds the CSR adjacency representation built from an edge list.
// xoff carries the start offset of every vertex's window (with a minimum
// per-vertex stride of two to tolerate insertion before packing), xendoff
// the tightened end offsets, and xadj the packed, sorted, deduped neighbor
// lists.
type Graph struct {
	NV int64 // number of vertices
	NE int64 // number of edges, post dedupe

	xoff    []int64 // length 2*NV+2; only [start(0)..start(NV)] is used, start(NV) being the total size
	xendoff []int64 // length NV: tightened end offsets, post pack
	xadj    []Edge
}

// LoadEdgeList reads numEdges packed (v0, v1 int64 little-endian) pairs
// from path.
func LoadEdgeList(path string, numEdges int64) ([]RawEdge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("opening graph file %q: %w: %w", path, ErrGraphFile, err)
	}
	defer f.Close()

	edges := make([]RawEdge, numEdges)
	buf := make([]byte, 16)
	for i := int64(0); i < numEdges; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, xerrors.Errorf("reading edge %d of %q: %w: %w", i, path, ErrGraphFile, err)
		}
		edges[i] = RawEdge{
			V0: int64(binary.LittleEndian.Uint64(buf[0:8])),
			V1: int64(binary.LittleEndian.Uint64(buf[8:16])),
		}
	}
	return edges, nil
}

// NewGraph builds a CSR graph from an undirected edge list. Self-loops are
// dropped; each edge is scattered in both directions; each vertex's
// adjacency list is sorted and deduped in place.
func NewGraph(edges []RawEdge) (*Graph, error) {
	g := &Graph{}
	g.findNV(edges)

	if err := g.setupDegOff(edges); err != nil {
		return nil, err
	}
	if err := g.gatherEdges(edges); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Graph) findNV(edges []RawEdge) {
	maxVtx := int64(-1)
	for _, e := range edges {
		if e.V0 > maxVtx {
			maxVtx = e.V0
		}
		if e.V1 > maxVtx {
			maxVtx = e.V1
		}
	}
	g.NV = maxVtx + 1
}

func (g *Graph) setupDegOff(edges []RawEdge) error {
	g.xoff = make([]int64, 2*g.NV+2)
	for _, e := range edges {
		if e.V0 == e.V1 {
			continue // skip self-loops
		}
		if e.V0 >= 0 {
			g.xoff[e.V0]++
		}
		if e.V1 >= 0 {
			g.xoff[e.V1]++
		}
	}

	var accum int64
	for k := int64(0); k < g.NV; k++ {
		tmp := g.xoff[k]
		if tmp < 2 {
			tmp = 2
		}
		g.xoff[k] = accum
		accum += tmp
	}
	g.xoff[g.NV] = accum

	g.xendoff = make([]int64, g.NV)
	copy(g.xendoff, g.xoff[:g.NV])

	g.xadj = make([]Edge, accum)
	for i := range g.xadj {
		g.xadj[i].DestID = -1
	}
	return nil
}

func (g *Graph) scatterEdge(i, j int64) error {
	where := g.xendoff[i]
	g.xendoff[i]++
	if where >= g.xoff[i+1] {
		return xerrors.Errorf("vertex %d: %w", i, ErrTooManyEdges)
	}
	g.xadj[where].DestID = VertexID(j)
	return nil
}

func (g *Graph) gatherEdges(edges []RawEdge) error {
	for _, e := range edges {
		if e.V0 >= 0 && e.V1 >= 0 && e.V0 != e.V1 {
			if err := g.scatterEdge(e.V0, e.V1); err != nil {
				return err
			}
			if err := g.scatterEdge(e.V1, e.V0); err != nil {
				return err
			}
		}
	}

	for v := int64(0); v < g.NV; v++ {
		g.packVtxEdges(v)
		g.NE += g.NumNeighbors(VertexID(v))
	}

	// Degree annotation requires every vertex's final adjacency list, so
	// it runs as a second pass over the now-packed edges.
	for v := int64(0); v < g.NV; v++ {
		n := g.NumNeighbors(VertexID(v))
		for i := int64(0); i < n; i++ {
			edge := &g.xadj[g.xoff[v]+i]
			edge.DestDegree = g.NumNeighbors(edge.DestID)
		}
	}
	return nil
}

func (g *Graph) packVtxEdges(i int64) {
	start, end := g.xoff[i], g.xendoff[i]
	if start+1 >= end {
		return
	}
	slice := g.xadj[start:end]
	sort.Slice(slice, func(a, b int) bool { return slice[a].DestID < slice[b].DestID })

	kcur := 0
	for k := 1; k < len(slice); k++ {
		if slice[k].DestID != slice[kcur].DestID {
			kcur++
			slice[kcur] = slice[k]
		}
	}
	kcur++
	for k := kcur; k < len(slice); k++ {
		slice[k].DestID = -1
	}
	g.xendoff[i] = start + int64(kcur)
}

// NumNeighbors returns the number of distinct neighbors of vertex.
func (g *Graph) NumNeighbors(vertex VertexID) int64 {
	return g.xendoff[vertex] - g.xoff[vertex]
}

// Neighbor returns the index'th neighbor edge of vertex.
func (g *Graph) Neighbor(vertex VertexID, index int64) Edge {
	return g.xadj[g.xoff[vertex]+index]
}

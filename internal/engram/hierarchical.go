package engram

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/amn-labs/holofs/internal/vsa"
)

// HierarchicalNNZCap bounds a sub-engram node's non-zero lane count;
// nodes exceeding it are thinned so the tree stays resistant to
// exponential density growth as bundles accumulate toward the root.
const HierarchicalNNZCap = 4096

// SubEngram is one node of the hierarchical directory tree: the bundle
// of every descendant chunk vector, each permuted by its depth-scaled
// path-component shift before bundling. It is a retrieval surface only —
// per the reversible encoder's open-question resolution, exact
// reconstruction always goes through Engram's flat codebook and
// correction store, never by inverting these permutations.
type SubEngram struct {
	Component string
	Depth     int
	Shift     uint32
	Vector    *vsa.SparseVector
	Children  map[string]*SubEngram
}

func newSubEngram(component string, depth int, shift uint32, dim uint32) *SubEngram {
	return &SubEngram{
		Component: component,
		Depth:     depth,
		Shift:     shift,
		Vector:    vsa.NewSparseVector(dim),
		Children:  make(map[string]*SubEngram),
	}
}

// componentShift derives a path component's base permutation shift: the
// first four bytes of SHA-256(component), little-endian, modulo dim.
func componentShift(component string, dim uint32) uint32 {
	sum := sha256.Sum256([]byte(component))
	h := binary.LittleEndian.Uint32(sum[:4])
	return h % dim
}

// splitPath breaks a manifest path into its components, ignoring empty
// segments from leading/trailing/duplicate separators.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BuildHierarchical constructs the sub-engram tree for a flat engram's
// manifest: every file's chunk vectors are fetched from the flat
// codebook, bundled into one file vector, then permuted per path component
// at increasing depth and bundled into every node along the file's path
// (each directory node and the file's own leaf node). The returned root
// node's Vector is not bundled and stays empty.
func BuildHierarchical(flat *Engram, manifest *Manifest) (*SubEngram, error) {
	root := newSubEngram("", 0, 0, flat.Dim)
	for _, entry := range manifest.Files {
		fileVec, err := fileVector(flat, entry)
		if err != nil {
			return nil, err
		}
		insertIntoTree(root, splitPath(entry.Path), 0, fileVec, flat.Dim)
	}
	return root, nil
}

// fileVector bundles a single file's chunk vectors (unpermuted) into one
// vector representing the whole file's content.
func fileVector(flat *Engram, entry FileEntry) (*vsa.SparseVector, error) {
	if len(entry.Chunks) == 0 {
		return vsa.NewSparseVector(flat.Dim), nil
	}
	vecs := make([]*vsa.SparseVector, 0, len(entry.Chunks))
	for _, id := range entry.Chunks {
		v, err := flat.Codebook.Get(id)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, v)
	}
	return vsa.BundleHybridMany(vecs), nil
}

// insertIntoTree walks/creates the path-component chain rooted at node.
// At each depth d (0-indexed), the component's own hash-derived shift is
// scaled by (d+1) and applied to fileVec before bundling it into that
// component's sub-engram node, then thinning if the node grew past the
// density cap.
func insertIntoTree(node *SubEngram, components []string, depth int, fileVec *vsa.SparseVector, dim uint32) {
	if depth >= len(components) {
		return
	}
	name := components[depth]
	child, ok := node.Children[name]
	if !ok {
		child = newSubEngram(name, depth+1, componentShift(name, dim), dim)
		node.Children[name] = child
	}

	effectiveShift := (child.Shift * uint32(depth+1)) % dim
	permuted := fileVec.Permute(effectiveShift)
	child.Vector = child.Vector.Bundle(permuted)
	if child.Vector.NNZ() > HierarchicalNNZCap {
		child.Vector = child.Vector.Thin(HierarchicalNNZCap)
	}

	insertIntoTree(child, components, depth+1, fileVec, dim)
}

// Lookup walks the tree to the node addressed by a slash-separated
// directory path, returning nil if no such node was built.
func (s *SubEngram) Lookup(path string) *SubEngram {
	node := s
	for _, component := range splitPath(path) {
		child, ok := node.Children[component]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

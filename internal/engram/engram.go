package engram

import (
	"github.com/amn-labs/holofs/internal/correction"
	"github.com/amn-labs/holofs/internal/reversible"
	"github.com/amn-labs/holofs/internal/vsa"
)

// Engram is the holographic filesystem's core artifact: a codebook of
// per-chunk vectors, a correction store making their raw decode exact,
// and (lazily) a root vector bundled over the codebook. It is born
// empty, grows monotonically during ingest, and is immutable once
// serialised.
type Engram struct {
	Dim         uint32
	Codebook    *Codebook
	Corrections *correction.Store
}

// New returns an empty engram for vectors of the given dimension.
func New(dim uint32) *Engram {
	return &Engram{Dim: dim, Codebook: NewCodebook(dim), Corrections: correction.NewStore()}
}

// Root returns the N-ary bundle over every vector in the codebook.
func (e *Engram) Root() *vsa.SparseVector {
	return e.Codebook.Root()
}

// ChunkBytes splits data into fixed-size chunks of at most chunkSize
// bytes, the last one possibly short. An empty input yields no chunks.
func ChunkBytes(data []byte, chunkSize int) [][]byte {
	if len(data) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = reversible.DefaultChunkSize
	}
	var chunks [][]byte
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[off:end])
	}
	return chunks
}

// EncodedChunk is one chunk's full ingest result: its assigned id, its
// codebook vector, and the correction that makes its raw decode exact.
type EncodedChunk struct {
	ID         ChunkID
	Vector     *vsa.SparseVector
	Correction correction.Correction
}

// EncodeFile splits data into chunks and encodes each one independently
// (pure, side-effect free — safe to call concurrently across files). It
// does not assign chunk ids; that is the reducer's job so that ids stay
// deterministic regardless of how encoding was parallelised.
func EncodeFile(data []byte, cfg reversible.Config, path string, chunkSize int, dim uint32) []*vsa.SparseVector {
	chunks := ChunkBytes(data, chunkSize)
	out := make([]*vsa.SparseVector, len(chunks))
	for i, chunk := range chunks {
		out[i] = reversible.EncodeChunk(chunk, cfg, path, dim)
	}
	return out
}

// BuildCorrection computes the correction for one chunk: it raw-decodes
// the encoded vector and diffs it against the original bytes.
func BuildCorrection(original []byte, vector *vsa.SparseVector, cfg reversible.Config, path string, dim uint32) correction.Correction {
	rawDecoded := reversible.DecodeChunk(vector, cfg, path, dim, len(original))
	return correction.Build(original, rawDecoded)
}

// AddFile allocates chunk ids starting at the engram's current chunk
// count, inserts each chunk's vector into the codebook and its
// correction into the store, and returns the FileEntry to append to the
// manifest. Chunk ids are assigned in slice order, so callers (the
// ingest reducer) control ordering by controlling the order files and
// their chunks are passed in.
func (e *Engram) AddFile(path string, isText bool, size uint64, originalChunks [][]byte, vectors []*vsa.SparseVector, corrections []correction.Correction) FileEntry {
	ids := make([]ChunkID, len(vectors))
	next := ChunkID(e.Codebook.Len())
	for i := range vectors {
		id := next + ChunkID(i)
		e.Codebook.Insert(id, vectors[i])
		e.Corrections.Set(id, corrections[i])
		ids[i] = id
	}
	return FileEntry{Path: path, IsText: isText, Size: size, Chunks: ids}
}

// ExtractChunk reconstructs a single chunk's bytes: it fetches the
// codebook vector, raw-decodes it, and applies the stored correction.
// Split out of ExtractFile so a caller extracting many files that share
// chunk ids (e.g. a deduplicating ingest) can cache per-chunk results
// instead of redoing the decode on every reference.
func (e *Engram) ExtractChunk(id ChunkID, cfg reversible.Config, path string, chunkLen int) ([]byte, error) {
	v, err := e.Codebook.Get(id)
	if err != nil {
		return nil, err
	}
	rawDecoded := reversible.DecodeChunk(v, cfg, path, e.Dim, chunkLen)
	reconstructed, ok, err := e.Corrections.VerifyingApply(id, rawDecoded)
	if err != nil {
		return nil, err
	}
	if !ok {
		reconstructed = rawDecoded
	}
	return reconstructed, nil
}

// ExtractFile reconstructs a file's bytes from its manifest entry by
// calling ExtractChunk for each chunk id in order. Chunks are looked up
// independently so file-level extraction needs no synchronisation beyond
// read access to the immutable codebook and correction store.
func (e *Engram) ExtractFile(entry FileEntry, cfg reversible.Config, chunkSize int) ([]byte, error) {
	out := make([]byte, 0, entry.Size)
	remaining := int(entry.Size)
	for _, id := range entry.Chunks {
		chunkLen := chunkSize
		if chunkLen <= 0 {
			chunkLen = reversible.DefaultChunkSize
		}
		if chunkLen > remaining {
			chunkLen = remaining
		}
		reconstructed, err := e.ExtractChunk(id, cfg, entry.Path, chunkLen)
		if err != nil {
			return nil, err
		}
		out = append(out, reconstructed...)
		remaining -= chunkLen
	}
	return out, nil
}

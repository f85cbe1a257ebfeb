package engram

// FileEntry records one ingested file's place in the manifest: its
// source-relative path, whether it was treated as text, its original
// byte size, and the ordered list of chunk ids it decomposes into.
type FileEntry struct {
	Path   string    `json:"path"`
	IsText bool      `json:"is_text"`
	Size   uint64    `json:"size"`
	Chunks []ChunkID `json:"chunks"`
}

// Manifest is the flat-ingest record: every file plus the total chunk
// count assigned across the whole engram.
type Manifest struct {
	Files       []FileEntry `json:"files"`
	TotalChunks uint32      `json:"total_chunks"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{}
}

// AddFile appends a file entry and advances TotalChunks by the number of
// chunks it contributes. Callers must pass chunk ids in the order they
// were assigned by the ingest reducer.
func (m *Manifest) AddFile(entry FileEntry) {
	m.Files = append(m.Files, entry)
	m.TotalChunks += uint32(len(entry.Chunks))
}

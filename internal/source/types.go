package source

type (
	// UnitID identifies a unit within one Store.
	UnitID uint32 // индекс в Store
	// Flags encodes metadata about how a unit's content was normalized.
	Flags uint8
)

const (
	// UnitHadBOM marks content that started with a UTF-8 byte order mark.
	UnitHadBOM Flags = 1 << iota
	// UnitNormalizedCRLF marks content whose CRLF line endings were folded to LF.
	UnitNormalizedCRLF
)

// Kind distinguishes source text from compiled artifacts.
type Kind uint8

const (
	// KindSource is program text in the candidate language.
	KindSource Kind = iota
	// KindArtifact is a compiled class blob.
	KindArtifact
)

// Extension returns the synthetic file extension used in unit paths.
func (k Kind) Extension() string {
	switch k {
	case KindArtifact:
		return ".class"
	default:
		return ".java"
	}
}

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "SOURCE"
	case KindArtifact:
		return "ARTIFACT"
	}
	return "UNKNOWN"
}

// LineCol represents a human-readable position in a unit.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

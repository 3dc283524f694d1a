package cache

import "strconv"

// keyVersion changes whenever the encoded artifact layout changes, so stale
// entries from older builds are never served.
const keyVersion = "v1"

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for an encoded synthesis result.
	ArtifactKey(opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts identifies one synthesis output.
type ArtifactKeyOpts struct {
	RequestHash string // hash of the effective render request
	Condition   string
	ProfileHash string // hash of the resolved profile, so config edits invalidate
	FontHash    string // fingerprint of the registered font faces
	Seed        uint64
	Format      string // png, tiff
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<condition>:<sha256>".
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Condition, keyVersion, opts.RequestHash, opts.ProfileHash, opts.FontHash,
		strconv.FormatUint(opts.Seed, 10), opts.Format)
}

var _ Keyer = DefaultKeyer{}

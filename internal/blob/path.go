package blob

import (
	"fmt"
	"math/rand/v2"
	"path"
	"regexp"
	"strings"
	"time"
)

var unsafeKeyCharRe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

const maxFilenameLen = 200

// SanitizeFilename replaces every character outside [a-zA-Z0-9.-_] with '_'.
// Long names are truncated keeping the extension.
func SanitizeFilename(name string) string {
	name = unsafeKeyCharRe.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	if len(name) > maxFilenameLen {
		ext := path.Ext(name)
		if len(ext) >= maxFilenameLen {
			ext = ""
		}
		name = strings.TrimSuffix(name, ext)[:maxFilenameLen-len(ext)] + ext
	}
	return name
}

// KeyGenerator builds unique object keys of the form
// {folder}/{unixMillis}-{random}-{sanitizedFilename}.
type KeyGenerator struct {
	folder  string
	now     func() time.Time
	randInt func() int64
}

// NewKeyGenerator returns a generator for keys under folder.
func NewKeyGenerator(folder string) *KeyGenerator {
	return &KeyGenerator{
		folder:  strings.Trim(folder, "/"),
		now:     time.Now,
		randInt: func() int64 { return rand.Int64N(1_000_000_000) },
	}
}

// Folder returns the key prefix.
func (g *KeyGenerator) Folder() string {
	return g.folder
}

// Generate returns a fresh key for an upload named filename.
func (g *KeyGenerator) Generate(filename string) string {
	return fmt.Sprintf("%s/%d-%d-%s", g.folder, g.now().UnixMilli(), g.randInt(), SanitizeFilename(filename))
}

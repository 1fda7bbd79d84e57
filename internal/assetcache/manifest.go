package assetcache

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// CoreAssets are the resources pre-cached by a default install.
var CoreAssets = []string{
	"./",
	"./index.html",
	"./app.js",
	"./data.json",
	"./manifest.json",
	"./icon-192.png",
	"./icon-512.png",
}

// ManifestEntry is one resource to install, optionally pinned by checksum.
type ManifestEntry struct {
	Path   string
	SHA256 string
}

// Manifest lists resources relative to an origin.
type Manifest struct {
	Base    string
	Entries []ManifestEntry
}

// DefaultManifest returns the core assets under base.
func DefaultManifest(base string) Manifest {
	m := Manifest{Base: base}
	for _, p := range CoreAssets {
		m.Entries = append(m.Entries, ManifestEntry{Path: p})
	}
	return m
}

// ParseManifest reads one entry per line. A line is either a path or a
// sha256sum-style "<hex>  <path>". Blank lines and # comments are skipped.
func ParseManifest(base string, r io.Reader) (Manifest, error) {
	m := Manifest{Base: base}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		switch len(parts) {
		case 1:
			m.Entries = append(m.Entries, ManifestEntry{Path: parts[0]})
		case 2:
			sum := strings.ToLower(parts[0])
			if _, err := hex.DecodeString(sum); err != nil || len(sum) != sha256.Size*2 {
				return Manifest{}, fmt.Errorf("manifest line %d: invalid sha256 %q", lineNo, parts[0])
			}
			m.Entries = append(m.Entries, ManifestEntry{Path: parts[1], SHA256: sum})
		default:
			return Manifest{}, fmt.Errorf("manifest line %d: expected \"[sha256] path\"", lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return m, nil
}

// Resolve returns the absolute URL of an entry.
func (m Manifest) Resolve(e ManifestEntry) (string, error) {
	base, err := url.Parse(m.Base)
	if err != nil {
		return "", fmt.Errorf("parse base %q: %w", m.Base, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(e.Path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", e.Path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func verifyChecksum(data []byte, expectedHex string) error {
	h := sha256.Sum256(data)
	actual := hex.EncodeToString(h[:])
	if actual != expectedHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, expectedHex, actual)
	}
	return nil
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

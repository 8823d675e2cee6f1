// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package table

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest is an optional sidecar describing a built table. It is never
// required to load a table (the binary file's own length is the hard gate,
// spec.md §7 TableLoadFailed) but lets operators confirm a table was built
// with the expected constant and wasn't truncated or corrupted in transit.
type Manifest struct {
	Entries      int           `yaml:"entries"`
	FileSize     int64         `yaml:"file_size_bytes"`
	Constant     string        `yaml:"constant_a"`
	Workers      int           `yaml:"workers"`
	BuildTime    time.Duration `yaml:"build_time"`
	SHA256       string        `yaml:"sha256"`
	GeneratedVia string        `yaml:"generated_via"`
}

// ManifestPath returns the conventional sidecar path for a table file:
// "<path>.manifest.yaml".
func ManifestPath(tablePath string) string {
	return tablePath + ".manifest.yaml"
}

// BuildManifest summarizes a freshly-built, in-memory table.
func BuildManifest(entries []uint64, workers int, buildTime time.Duration) Manifest {
	h := sha256.New()
	var word [8]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint64(word[:], e)
		h.Write(word[:])
	}

	return Manifest{
		Entries:      len(entries),
		FileSize:     FileSize,
		Constant:     "6364136223846793005",
		Workers:      workers,
		BuildTime:    buildTime,
		SHA256:       hex.EncodeToString(h.Sum(nil)),
		GeneratedVia: "gentable",
	}
}

// WriteManifest serializes m as YAML to path.
func WriteManifest(path string, m Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "os.Create()")
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(err, "yaml.Encode()")
	}
	return nil
}

// ReadManifest loads a manifest previously written by WriteManifest. It is
// purely advisory and breaker does not call it: breaker never reads a
// manifest, and its only check on a table is Open's file-size gate.
func ReadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.Wrap(err, "os.ReadFile()")
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, errors.Wrap(err, "yaml.Unmarshal()")
	}
	return m, nil
}

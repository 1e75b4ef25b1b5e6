// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txhashset

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeArchivePath is returned when an archive entry's name would
// extract outside dataDir — a zip-slip attempt from a malicious or
// corrupted peer-supplied snapshot.
var ErrUnsafeArchivePath = errors.New("txhashset: archive entry path escapes the target directory")

// ArchiveFiles lists the flat files a TxHashSet snapshot bundles, mirroring
// the on-disk layout each MMR kind keeps under mmr/<kind>/. cmd/node keeps
// the output leaf set in memory only, so it writes no pmmr_leafset.bin.
var ArchiveFiles = []string{
	"mmr/output/pmmr_data.bin",
	"mmr/output/pmmr_hash.bin",
	"mmr/output/pmmr_leafset.bin",
	"mmr/rangeproof/pmmr_data.bin",
	"mmr/rangeproof/pmmr_hash.bin",
	"mmr/kernel/pmmr_hash.bin",
}

// WriteArchive bundles every file under dataDir named in ArchiveFiles into
// a zip archive at archivePath, for peers requesting a fast-sync snapshot
// of the TxHashSet bound to a given header (MsgTypeTxHashSetArchive).
func WriteArchive(dataDir, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	for _, rel := range ArchiveFiles {
		path := filepath.Join(dataDir, rel)

		in, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		w, err := zw.Create(rel)
		if err != nil {
			in.Close()
			return err
		}
		if _, err := io.Copy(w, in); err != nil {
			in.Close()
			return err
		}
		in.Close()
	}

	return nil
}

// ReadArchive extracts a zip archive produced by WriteArchive into dataDir,
// overwriting any existing MMR files there. Callers must Validate the
// resulting TxHashSet against the header the archive claims to represent
// before trusting it.
func ReadArchive(archivePath, dataDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	cleanRoot := filepath.Clean(dataDir) + string(os.PathSeparator)

	for _, f := range zr.File {
		dest := filepath.Join(dataDir, f.Name)
		if !strings.HasPrefix(dest, cleanRoot) {
			return ErrUnsafeArchivePath
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}

		in, err := f.Open()
		if err != nil {
			return err
		}

		out, err := os.Create(dest)
		if err != nil {
			in.Close()
			return err
		}

		if _, err := io.Copy(out, in); err != nil {
			in.Close()
			out.Close()
			return err
		}
		in.Close()
		out.Close()
	}

	return nil
}

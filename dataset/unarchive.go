package dataset

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/rs/zerolog/log"
)

// Prepare makes a dataset shipped as an archive usable. For .zip, .gz and .lz4
// paths the database is unpacked next to the archive and the unpacked path is
// returned; any other path is returned unchanged. The archive is kept and an
// already unpacked file that is newer than the archive is reused.
func Prepare(path string) (string, error) {
	switch filepath.Ext(path) {
	case ".zip":
		return unpackZipArchive(path)
	case ".gz":
		return unpackStream(path, ".gz", func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case ".lz4":
		return unpackStream(path, ".lz4", func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		})
	}
	return path, nil
}

func upToDate(archivePath, destPath string) bool {
	src, err := os.Stat(archivePath)
	if err != nil {
		return false
	}
	dst, err := os.Stat(destPath)
	if err != nil {
		return false
	}
	return !dst.ModTime().Before(src.ModTime())
}

func unpackZipArchive(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	// the database is the largest file in the archive
	var largestFile *zip.File
	var largestSize uint64
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if f.UncompressedSize64 > largestSize || largestFile == nil {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		return "", fmt.Errorf("archive %s is empty", filePath)
	}

	destPath := filepath.Join(filepath.Dir(filePath), filepath.Base(largestFile.Name))
	if upToDate(filePath, destPath) {
		return destPath, nil
	}

	rc, err := largestFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	if err := writeFile(destPath, rc); err != nil {
		return "", err
	}
	log.Info().Str("archive", filePath).Str("dataset", destPath).Msg("dataset unpacked")
	return destPath, nil
}

func unpackStream(filePath, ext string, decompress func(io.Reader) (io.Reader, error)) (string, error) {
	destPath := strings.TrimSuffix(filePath, ext)
	if upToDate(filePath, destPath) {
		return destPath, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	r, err := decompress(file)
	if err != nil {
		return "", err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	if err := writeFile(destPath, r); err != nil {
		return "", err
	}
	log.Info().Str("archive", filePath).Str("dataset", destPath).Msg("dataset unpacked")
	return destPath, nil
}

// writeFile writes through a temporary file so a failed unpack never leaves a
// truncated database behind.
func writeFile(destPath string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}

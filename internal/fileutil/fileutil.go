package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// HashChunkSize is the read size used when hashing files.
const HashChunkSize = 64 * 1024

// Metadata setters, replaced in tests.
var (
	chmod   = os.Chmod
	chtimes = os.Chtimes
)

// CopyFile streams src to dst, carrying over the permission bits and the
// access/modification times of src. dst must not exist. Returns the number of
// bytes written. dst is removed on any failure.
func CopyFile(src, dst string) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return 0, fmt.Errorf("copy %s: not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return written, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return written, err
	}
	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return written, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}

	// OpenFile is subject to umask.
	if err := chmod(dst, srcInfo.Mode().Perm()); err != nil {
		_ = os.Remove(dst)
		return written, fmt.Errorf("chmod destination: %w", err)
	}
	if err := chtimes(dst, accessTime(srcInfo), srcInfo.ModTime()); err != nil {
		_ = os.Remove(dst)
		return written, fmt.Errorf("preserve timestamps: %w", err)
	}
	return written, nil
}

// HashFile returns the hex SHA-256 digest of path, read in HashChunkSize chunks.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, HashChunkSize)
	if _, err := io.CopyBuffer(hasher, onlyReader{f}, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// SameContent reports whether a and b hold identical bytes. Sizes are compared
// first; hashes are only computed for equal sizes. A missing file is reported
// as a mismatch rather than an error.
func SameContent(a, b string) (bool, error) {
	aInfo, err := os.Stat(a)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if aInfo.Size() != bInfo.Size() {
		return false, nil
	}

	aSum, err := HashFile(a)
	if err != nil {
		return false, err
	}
	bSum, err := HashFile(b)
	if err != nil {
		return false, err
	}
	return aSum == bSum, nil
}

// WriteFileAtomic writes data to a temp file beside path and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// onlyReader hides WriterTo so CopyBuffer honors the chunk size.
type onlyReader struct {
	io.Reader
}

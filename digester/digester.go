package digester

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// CalculateDigest computes the SHA256 hex digest of the file at
// path. Returns empty string with no error if the file does not
// exist.
func CalculateDigest(path string) (result string, retErr error) {
	const errCtx = "calculating digest"

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	ha := sha256.New()

	if _, err := io.Copy(ha, fi); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}

// BytesDigest returns the SHA256 hex digest of content.
func BytesDigest(content []byte) string {
	sum := sha256.Sum256(content)

	return hex.EncodeToString(sum[:])
}

// WriteIfChanged atomically writes content to path unless the file
// already holds exactly that content. Missing parent directories are
// created. It reports whether the file was written.
func WriteIfChanged(path string, content []byte) (bool, error) {
	const errCtx = "writing if changed"

	current, err := CalculateDigest(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if current == BytesDigest(content) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return true, nil
}

// CopyIfChanged copies src to dst unless both digests match. It reports
// whether dst was written.
func CopyIfChanged(src, dst string) (copied bool, retErr error) {
	const errCtx = "copying if changed"

	want, err := CalculateDigest(src)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	have, err := CalculateDigest(dst)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if want != "" && want == have {
		return false, nil
	}

	fi, err := os.Open(src) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := atomic.WriteFile(dst, fi); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return true, nil
}

package fsservice

import (
	"encoding/base64"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/vaultfs/vaultfs/pkg/fserrors"
)

const mediaFanOutLimit = 5

// supportedMediaPrefixes lists the top-level MIME types accepted by
// read_media_file; anything else fails with InvalidMediaFile.
var supportedMediaPrefixes = []string{"image/", "audio/"}

// MediaFile is a single read_media_file(s) result.
type MediaFile struct {
	Path     string
	MimeType string
	Base64   string
}

// ReadMediaFile implements read_media_file: validate, enforce an optional
// size ceiling, sniff the MIME type, and base64-encode the content.
func (s *Service) ReadMediaFile(path string, maxBytes *int64) (*MediaFile, error) {
	vp, err := s.validate(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(vp.Path)
	if err != nil {
		return nil, translateIOError(vp.Path, err)
	}
	if maxBytes != nil && info.Size() > *maxBytes {
		return nil, fserrors.FileTooLarge(vp.Path, info.Size(), *maxBytes)
	}

	data, err := os.ReadFile(vp.Path)
	if err != nil {
		return nil, translateIOError(vp.Path, err)
	}

	mime := mimetype.Detect(data)
	if !isSupportedMediaType(mime.String()) {
		return nil, fserrors.InvalidMediaFile(vp.Path, mime.String())
	}

	return &MediaFile{
		Path:     vp.Path,
		MimeType: mime.String(),
		Base64:   base64.StdEncoding.EncodeToString(data),
	}, nil
}

func isSupportedMediaType(mime string) bool {
	for _, prefix := range supportedMediaPrefixes {
		if len(mime) >= len(prefix) && mime[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// MediaFileResult is one per-path outcome of ReadMediaFiles: either File or
// Error is set.
type MediaFileResult struct {
	Path  string
	File  *MediaFile
	Error error
}

// ReadMediaFiles implements read_media_files: a bounded fan-out (at most 5
// concurrent reads, per §6 and the original_source-derived cap recorded in
// SPEC_FULL.md) over ReadMediaFile. Per-file failures are reported inline
// rather than aborting the batch, consistent with the per-file skip policy
// used throughout multi-file operations.
func (s *Service) ReadMediaFiles(paths []string, maxBytes *int64) []MediaFileResult {
	results := make([]MediaFileResult, len(paths))

	var group errgroup.Group
	group.SetLimit(mediaFanOutLimit)

	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			file, err := s.ReadMediaFile(path, maxBytes)
			results[i] = MediaFileResult{Path: path, File: file, Error: err}
			return nil
		})
	}
	_ = group.Wait()
	return results
}

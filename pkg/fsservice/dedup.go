package fsservice

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
)

const headHashSize = 4 * 1024
const fullHashChunkSize = 8 * 1024

// hashFileHead hashes the first n bytes of path (or the whole file if it's
// smaller).
func hashFileHead(path string, n int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyN(h, f, n); err != nil && err != io.EOF {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashFileFull hashes the entire contents of path, reading in
// fullHashChunkSize chunks.
func hashFileFull(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, fullHashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashBucketsParallel hashes every path in candidates using hashFn, run
// across a bounded worker pool, and regroups by hash. Unreadable files are
// silently dropped, per §4.7's failure policy.
func hashBucketsParallel(candidates []string, hashFn func(string) (string, error)) map[string][]string {
	var mu sync.Mutex
	byHash := map[string][]string{}

	var group errgroup.Group
	group.SetLimit(parallelism())

	for _, path := range candidates {
		path := path
		group.Go(func() error {
			hash, err := hashFn(path)
			if err != nil {
				return nil // skip unreadable file
			}
			mu.Lock()
			byHash[hash] = append(byHash[hash], path)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return byHash
}

// discardSingletons returns every bucket with 2 or more members, flattened
// into a slice of path groups.
func discardSingletons(buckets map[string][]string) [][]string {
	var groups [][]string
	for _, paths := range buckets {
		if len(paths) >= 2 {
			groups = append(groups, paths)
		}
	}
	return groups
}

// FindDuplicateFiles implements find_duplicate_files: a three-phase
// size -> head-hash -> full-hash pipeline over files under root, walked via
// C2 with the given include pattern, excludes, and size window.
func (s *Service) FindDuplicateFiles(opts FileSearchOptions) ([]DuplicateGroup, error) {
	root, err := s.validate(opts.Root)
	if err != nil {
		return nil, err
	}

	walkOpts := WalkOptions{
		IncludeGlob:                opts.FileGlob,
		MatchIncludeAgainstRelPath: true,
		ExcludeGlobs:               opts.Excludes,
		MinSize:                    opts.MinBytes,
		MaxSize:                    opts.MaxBytes,
		RespectIgnoreFiles:         true,
	}

	bySize := map[int64][]string{}
	var mu sync.Mutex
	err = WalkParallel(root, walkOpts, func(entry WalkEntry) WalkAction {
		if entry.Info.IsDir() || entry.IsSymlink || !entry.Info.Mode().IsRegular() {
			return WalkContinue
		}
		mu.Lock()
		bySize[entry.Info.Size()] = append(bySize[entry.Info.Size()], entry.AbsPath)
		mu.Unlock()
		return WalkContinue
	})
	if err != nil {
		return nil, err
	}

	var sizeSurvivors []string
	for _, paths := range bySize {
		if len(paths) >= 2 {
			sizeSurvivors = append(sizeSurvivors, paths...)
		}
	}
	if len(sizeSurvivors) == 0 {
		return nil, nil
	}

	// Phase 2 must regroup within each size bucket, not globally, so hash
	// buckets per size first.
	var headGroups [][]string
	for _, paths := range bySize {
		if len(paths) < 2 {
			continue
		}
		headBuckets := hashBucketsParallel(paths, func(p string) (string, error) {
			return hashFileHead(p, headHashSize)
		})
		headGroups = append(headGroups, discardSingletons(headBuckets)...)
	}
	if len(headGroups) == 0 {
		return nil, nil
	}

	var result []DuplicateGroup
	for _, candidates := range headGroups {
		fullBuckets := hashBucketsParallel(candidates, hashFileFull)
		for _, group := range discardSingletons(fullBuckets) {
			result = append(result, DuplicateGroup{Paths: group})
		}
	}

	return result, nil
}

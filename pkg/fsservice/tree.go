package fsservice

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// osMetadataNoise lists file names ignored when deciding whether a
// directory is "empty" of real content, per §4.8.
var osMetadataNoise = map[string]bool{
	".DS_Store": true,
	"Thumbs.db": true,
}

// DirectoryTree implements directory_tree: a depth-limited DFS building
// nested TreeNodes, honoring maxFiles as a soft cap on total emitted
// entries. It returns the forest of top-level nodes and whether recursion
// was cut short purely by maxDepth (as opposed to by maxFiles). Each
// level's listing goes through WalkOneLevel so the tree respects the same
// .gitignore/.ignore/hidden-file rules as every other C2 consumer, rather
// than reading raw directory contents.
func (s *Service) DirectoryTree(root string, maxDepth, maxFiles int) ([]*TreeNode, bool, error) {
	vp, err := s.validate(root)
	if err != nil {
		return nil, false, err
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	walkOpts := WalkOptions{RespectIgnoreFiles: true}

	var emitted int
	var reachedMaxDepth bool

	var walkLevel func(dir string, depth int) []*TreeNode
	walkLevel = func(dir string, depth int) []*TreeNode {
		children, err := WalkOneLevel(vp, dir, walkOpts)
		if err != nil {
			return nil
		}

		var nodes []*TreeNode
		for _, entry := range children {
			if maxFiles > 0 && emitted >= maxFiles {
				break
			}
			emitted++

			name := filepath.Base(entry.AbsPath)
			node := &TreeNode{}
			switch {
			case entry.IsSymlink:
				node.Name = name + "@"
			case entry.Info.IsDir():
				node.Name = name + "/"
			default:
				node.Name = name
			}

			if entry.Info.IsDir() && !entry.IsSymlink {
				if depth >= maxDepth {
					reachedMaxDepth = true
				} else {
					node.Children = walkLevel(entry.AbsPath, depth+1)
				}
			}

			nodes = append(nodes, node)
		}
		return nodes
	}

	tree := walkLevel(vp.Path, 1)
	return tree, reachedMaxDepth, nil
}

// CalculateDirectorySize implements calculate_directory_size: walk all
// files and sum sizes in parallel.
func (s *Service) CalculateDirectorySize(root string) (int64, error) {
	vp, err := s.validate(root)
	if err != nil {
		return 0, err
	}

	var total int64
	err = WalkParallel(vp, WalkOptions{RespectIgnoreFiles: true}, func(entry WalkEntry) WalkAction {
		if !entry.Info.IsDir() && !entry.IsSymlink {
			atomic.AddInt64(&total, entry.Info.Size())
		}
		return WalkContinue
	})
	return total, err
}

// HumanizeSize renders a byte count in human-readable form, e.g. "4.2 MB",
// for callers presenting calculate_directory_size results to a human rather
// than consuming the raw byte count. Nothing in this module calls it; the
// stdio loop returns the raw byte count.
func HumanizeSize(bytes int64) string {
	return humanize.Bytes(uint64(bytes))
}

// FindEmptyDirectories implements find_empty_directories: a directory is
// empty iff it transitively contains no regular files other than OS
// metadata noise. Entries matching an exclude glob are skipped: an excluded
// file does not count as content, and an excluded directory is neither
// reported nor descended into.
func (s *Service) FindEmptyDirectories(root string, excludes []string) ([]string, error) {
	vp, err := s.validate(root)
	if err != nil {
		return nil, err
	}

	type dirState struct {
		hasRealFile bool
	}
	states := map[string]*dirState{}
	var mu sync.Mutex

	walkOpts := WalkOptions{ExcludeGlobs: excludes, MatchIncludeAgainstRelPath: true, RespectIgnoreFiles: true}

	err = walkCore(vp, walkOpts, func(entry WalkEntry) bool {
		mu.Lock()
		defer mu.Unlock()

		if !passesFilters(entry, walkOpts) {
			return false
		}

		if entry.Info.IsDir() {
			states[entry.AbsPath] = &dirState{}
			return true
		}

		if entry.IsSymlink {
			return true
		}
		if osMetadataNoise[filepath.Base(entry.AbsPath)] {
			return true
		}

		for dir := filepath.Dir(entry.AbsPath); ; dir = filepath.Dir(dir) {
			if st, ok := states[dir]; ok {
				st.hasRealFile = true
			}
			if dir == vp.Path || dir == filepath.Dir(dir) {
				break
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	var empties []string
	for dir, st := range states {
		if !st.hasRealFile {
			empties = append(empties, dir)
		}
	}
	sort.Strings(empties)
	return empties, nil
}

// ListDirectory implements list_directory: one level, no recursion, entries
// in filesystem order.
func (s *Service) ListDirectory(root string) ([]DirEntry, error) {
	vp, err := s.validate(root)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(vp.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := f.Readdirnames(0)
	if err != nil {
		return nil, err
	}

	entries := make([]DirEntry, 0, len(names))
	for _, name := range names {
		info, err := os.Lstat(filepath.Join(vp.Path, name))
		if err != nil {
			continue
		}
		entries = append(entries, DirEntry{Name: name, IsDirectory: info.IsDir()})
	}
	return entries, nil
}

// ListDirectoryWithSizes is list_directory, additionally computing each
// regular file's size (directories report 0, matching the teacher's
// shallow-stat convention elsewhere in pkg/filesystem).
func (s *Service) ListDirectoryWithSizes(root string) ([]DirEntry, error) {
	vp, err := s.validate(root)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(vp.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := f.Readdirnames(0)
	if err != nil {
		return nil, err
	}

	entries := make([]DirEntry, len(names))
	var group errgroup.Group
	group.SetLimit(parallelism())

	for i, name := range names {
		i, name := i, name
		group.Go(func() error {
			info, err := os.Lstat(filepath.Join(vp.Path, name))
			if err != nil {
				entries[i] = DirEntry{Name: name}
				return nil
			}
			var size int64
			if info.Mode().IsRegular() {
				size = info.Size()
			}
			entries[i] = DirEntry{Name: name, IsDirectory: info.IsDir(), Size: size}
			return nil
		})
	}
	_ = group.Wait()
	return entries, nil
}

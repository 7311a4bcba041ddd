package fsservice

import (
	"os"

	"github.com/vaultfs/vaultfs/pkg/fserrors"
	"github.com/vaultfs/vaultfs/pkg/filesystem"
	"github.com/vaultfs/vaultfs/pkg/logging"
)

// Service is the long-lived, concurrency-safe FileSystemService core: it
// owns the allow-list and dispatches every read/write/search/dedup
// operation through path validation first.
type Service struct {
	allowList *allowListSnapshot
	logger    *logging.Logger
}

// New constructs a Service with the given initial allow-list, rejecting any
// entry that isn't a directory. This is the "try_new" constructor from
// spec.md §6.
func New(initialAllowList []string, logger *logging.Logger) (*Service, error) {
	roots := make([]string, 0, len(initialAllowList))
	for _, raw := range initialAllowList {
		p, err := filesystem.Normalize(stripFileURI(raw))
		if err != nil {
			return nil, fserrors.Wrapf(fserrors.CodeInvalidInput, err, "unable to normalize initial root %q", raw)
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fserrors.Wrapf(fserrors.CodeInvalidInput, err, "unable to stat initial root %q", p)
		}
		if !info.IsDir() {
			return nil, fserrors.Newf(fserrors.CodeInvalidInput, "initial root %q is not a directory", p)
		}
		roots = append(roots, p)
	}

	return &Service{
		allowList: newAllowListSnapshot(roots),
		logger:    logger,
	}, nil
}

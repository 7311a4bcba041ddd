package filesystem

const (
	// TemporaryNamePrefix is the file name prefix used for all temporary files
	// created by vaultfs (e.g. intermediate files for atomic writes). It may
	// be suffixed with additional elements if desired.
	TemporaryNamePrefix = ".vaultfs-temporary-"
)

//go:build !linux && !darwin && !freebsd && !windows

package importkit

func freeSpace(string) (uint64, error) {
	return 0, ErrNotSupported
}

//go:build unix && !linux

package bench

import "golang.org/x/sys/unix"

func dup(fd int) (int, error) {
	return unix.Dup(fd)
}

func dupTo(oldfd, newfd int) error {
	return unix.Dup2(oldfd, newfd)
}

func closeFd(fd int) {
	_ = unix.Close(fd)
}

package bench

import "golang.org/x/sys/unix"

func dup(fd int) (int, error) {
	return unix.Dup(fd)
}

func dupTo(oldfd, newfd int) error {
	return unix.Dup3(oldfd, newfd, 0)
}

func closeFd(fd int) {
	_ = unix.Close(fd)
}

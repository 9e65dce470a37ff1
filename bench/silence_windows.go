package bench

import "github.com/pkg/errors"

var errNoRedirect = errors.New("output descriptor redirection is not supported on windows")

func dup(fd int) (int, error) {
	return -1, errNoRedirect
}

func dupTo(oldfd, newfd int) error {
	return errNoRedirect
}

func closeFd(fd int) {}

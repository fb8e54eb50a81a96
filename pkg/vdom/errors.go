package vdom

import rerrors "github.com/vango-dev/reflow/internal/errors"

var (
	// ErrNoHost reports a previous descriptor that carries no host node.
	ErrNoHost = rerrors.New("R001")

	// ErrInvalidTarget reports a nil descriptor or an unusable patch target.
	ErrInvalidTarget = rerrors.New("R002")
)

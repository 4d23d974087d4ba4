package cli

import "errors"

// ErrUsage is returned for malformed usage documents and for arguments that do not match them.
var ErrUsage = errors.New("usage")

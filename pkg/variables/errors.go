package variables

import "errors"

// ErrSyntax is returned by ParseValue when the text is not a supported literal.
var ErrSyntax = errors.New("invalid literal")

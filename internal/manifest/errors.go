package manifest

import "errors"

// ErrInvalidVersionProfile signals a malformed upstream manifest — an
// unparsable Maven coordinate, an unmatched template brace, or an
// incompatible merge between two argument-declaration shapes.
var ErrInvalidVersionProfile = errors.New("invalid version profile")

// ErrUnknownTemplateParameter signals a `${name}` token with no known
// substitution.
var ErrUnknownTemplateParameter = errors.New("unknown template parameter")

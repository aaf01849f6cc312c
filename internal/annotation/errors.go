package annotation

import "errors"

// ErrAnnotationNotFound signals that the asset has no annotation row.
var ErrAnnotationNotFound = errors.New("annotation not found")

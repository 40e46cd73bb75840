package detect

import "github.com/pkg/errors"

// Sentinel errors for the two failure classes of frame processing. Callers
// match with errors.Is: ErrDecode means the input media could not be parsed
// (client fault), ErrInference means the detector itself failed (surfaced,
// never retried).
var (
	ErrDecode    = errors.New("unable to decode media input")
	ErrInference = errors.New("detector inference failed")
)

package product

import "errors"

var ErrInvalidKind = errors.New("invalid product kind")

// Kind is a closed set; every switch over it must handle both members.
type Kind string

const (
	// KindSingleReplay grants access to one replay video.
	KindSingleReplay Kind = "single_replay"
	// KindYearBundle grants access to every replay of its event year.
	KindYearBundle Kind = "year_bundle"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindSingleReplay, KindYearBundle:
		return true
	default:
		return false
	}
}

func NewKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

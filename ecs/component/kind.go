package component

// Kind is the variant tag of a gameplay entity. Every entity built by the
// entity package carries exactly one.
type Kind uint8

const (
	KindStaticProp Kind = iota + 1
	KindPlayer
	KindBullet
)

func (k Kind) String() string {
	switch k {
	case KindStaticProp:
		return "static_prop"
	case KindPlayer:
		return "player"
	case KindBullet:
		return "bullet"
	default:
		return "unknown"
	}
}

var KindComponent = NewComponent[Kind]()

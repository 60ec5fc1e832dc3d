package player

// BorderPolicy decides what an out-of-bounds move attempt does.
type BorderPolicy int

const (
	BorderBlock BorderPolicy = iota
	BorderKill
	BorderWrap
	BorderExit
)

func (b BorderPolicy) String() string {
	switch b {
	case BorderKill:
		return "kill"
	case BorderWrap:
		return "wrap"
	case BorderExit:
		return "exit"
	default:
		return "block"
	}
}

// ParseBorderPolicy maps a level's border_behavior. An empty name means
// kill; an unknown name falls back to block and reports false.
func ParseBorderPolicy(s string) (BorderPolicy, bool) {
	switch s {
	case "", "kill":
		return BorderKill, true
	case "block":
		return BorderBlock, true
	case "wrap":
		return BorderWrap, true
	case "exit":
		return BorderExit, true
	default:
		return BorderBlock, false
	}
}

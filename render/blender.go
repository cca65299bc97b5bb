package render

// BlendMode selects the compositing operation for a draw call
type BlendMode uint8

const (
	BlendAlpha BlendMode = iota
	BlendScreen
	BlendMultiply
)

// String returns the mode name for HUD and logs
func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendScreen:
		return "screen"
	case BlendMultiply:
		return "multiply"
	default:
		return "unknown"
	}
}

// Apply composites src over dst with the mode at the given alpha
func (m BlendMode) Apply(dst, src RGB, alpha float64) RGB {
	switch m {
	case BlendScreen:
		return Screen(dst, src, alpha)
	case BlendMultiply:
		return Multiply(dst, src, alpha)
	default:
		return Blend(dst, src, alpha)
	}
}

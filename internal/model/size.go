package model

// SizeTier buckets a group by its item count.
type SizeTier int

const (
	TierEmpty SizeTier = iota
	TierSmall
	TierMedium
	TierLarge
	TierXLarge
	TierHuge
)

// TierFor maps an item count to its tier.
func TierFor(n int) SizeTier {
	switch {
	case n <= 0:
		return TierEmpty
	case n <= 3:
		return TierSmall
	case n <= 5:
		return TierMedium
	case n <= 10:
		return TierLarge
	case n <= 20:
		return TierXLarge
	default:
		return TierHuge
	}
}

func (t SizeTier) String() string {
	switch t {
	case TierEmpty:
		return "empty"
	case TierSmall:
		return "small"
	case TierMedium:
		return "medium"
	case TierLarge:
		return "large"
	case TierXLarge:
		return "x-large"
	default:
		return "huge"
	}
}

// Glyph is the badge shown on a group card.
func (t SizeTier) Glyph() string {
	switch t {
	case TierEmpty:
		return "🥚"
	case TierSmall:
		return "🐔"
	case TierMedium:
		return "🐖"
	case TierLarge:
		return "🐄"
	case TierXLarge:
		return "🐉"
	default:
		return "🌎"
	}
}

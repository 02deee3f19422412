package poker

// HoleCategory is a coarse preflop strength bucket for hole cards.
type HoleCategory string

const (
	CategoryPremium HoleCategory = "Premium"
	CategoryStrong  HoleCategory = "Strong"
	CategoryMedium  HoleCategory = "Medium"
	CategoryWeak    HoleCategory = "Weak"
	CategoryTrash   HoleCategory = "Trash"
	CategoryUnknown HoleCategory = "Unknown"
)

// CategorizeHole provides a simple preflop hand categorization.
// Categories: Premium (JJ+, AK), Strong (TT, AQ/AJ), Medium (77+, suited broadway),
// Weak (small pairs, suited connectors), Trash (everything else).
func CategorizeHole(h Hole) HoleCategory {
	if !h[0].Valid() || !h[1].Valid() || h[0] == h[1] {
		return CategoryUnknown
	}

	small, big := h[0].Rank(), h[1].Rank()
	if small > big {
		small, big = big, small
	}
	suited := h[0].Suit() == h[1].Suit()
	isPair := small == big

	// Premium: JJ+, AK (any suit)
	if isPair && small >= Jack {
		return CategoryPremium
	}
	if small == King && big == Ace {
		return CategoryPremium
	}

	// Strong: TT, AQ, AJ
	if isPair && small == Ten {
		return CategoryStrong
	}
	if big == Ace && (small == Queen || small == Jack) {
		return CategoryStrong
	}

	// Medium: 77-99, suited broadway cards (KQ, KJ, QJ suited)
	if isPair && small >= Seven {
		return CategoryMedium
	}
	if suited && small >= Ten {
		return CategoryMedium
	}

	// Weak: small pairs (22-66) or suited connectors
	if isPair {
		return CategoryWeak
	}
	if suited && big-small <= 2 {
		return CategoryWeak
	}

	return CategoryTrash
}

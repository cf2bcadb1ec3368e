package enums

// BargainBehavior represents the negotiation strategy applied when a buyer
// makes an offer on a variant.
type BargainBehavior string

const (
	BargainBehaviorAggressive BargainBehavior = "aggressive"
	BargainBehaviorModerate   BargainBehavior = "moderate"
	BargainBehaviorFlexible   BargainBehavior = "flexible"
)

var validBargainBehaviors = []BargainBehavior{
	BargainBehaviorAggressive,
	BargainBehaviorModerate,
	BargainBehaviorFlexible,
}

// String implements fmt.Stringer.
func (b BargainBehavior) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BargainBehavior.
func (b BargainBehavior) IsValid() bool {
	for _, candidate := range validBargainBehaviors {
		if candidate == b {
			return true
		}
	}
	return false
}

// BargainBehaviors returns the closed set of accepted behaviors.
func BargainBehaviors() []BargainBehavior {
	out := make([]BargainBehavior, len(validBargainBehaviors))
	copy(out, validBargainBehaviors)
	return out
}

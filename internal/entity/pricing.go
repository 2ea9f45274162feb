package entity

// Pricing is the shape a model reply used for the pricing field.
// The set of implementations is closed: PricingText, PricingTiers,
// PricingTierMap and PricingAbsent.
type Pricing interface {
	isPricing()
}

// TierLine is one key/value pair of a pricing tier. Lines built from a
// non-object list element have HasKey unset and carry only a Value.
type TierLine struct {
	Key    string
	Value  string
	HasKey bool
}

// String renders the line as "<key>: <value>", or just the value for bare lines.
func (l TierLine) String() string {
	if !l.HasKey {
		return l.Value
	}
	return l.Key + ": " + l.Value
}

// PricingText is pricing already given as prose.
type PricingText string

// PricingTiers is pricing given as a list of tier objects, flattened in order.
type PricingTiers []TierLine

// PricingTierMap is pricing given as a single tier name to description object.
type PricingTierMap []TierLine

// PricingAbsent means the reply had no pricing at all.
type PricingAbsent struct{}

func (PricingText) isPricing()    {}
func (PricingTiers) isPricing()   {}
func (PricingTierMap) isPricing() {}
func (PricingAbsent) isPricing()  {}

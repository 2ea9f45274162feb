package proposal

import (
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/extract"
	"github.com/tidwall/gjson"
)

const pricingPending = "Pricing will be finalized after discussion."

// pricingFromReply classifies the shape of the "pricing" value of a reply.
func pricingFromReply(obj extract.Object) entity.Pricing {
	if !obj.Has("pricing") {
		return entity.PricingAbsent{}
	}

	value := obj.Get("pricing")
	switch {
	case value.IsArray():
		var tiers entity.PricingTiers
		for _, item := range value.Array() {
			if !item.IsObject() {
				tiers = append(tiers, entity.TierLine{Value: extract.Flatten(item)})
				continue
			}
			tiers = append(tiers, objectLines(item)...)
		}
		return tiers
	case value.IsObject():
		return entity.PricingTierMap(objectLines(value))
	default:
		return entity.PricingText(value.String())
	}
}

func objectLines(obj gjson.Result) []entity.TierLine {
	var lines []entity.TierLine
	obj.ForEach(func(key, value gjson.Result) bool {
		lines = append(lines, entity.TierLine{
			Key:    key.String(),
			Value:  extract.Flatten(value),
			HasKey: true,
		})
		return true
	})
	return lines
}

// NormalizePricing turns any pricing shape into the single text stored in
// ProposalState.Pricing. Text is returned unchanged; tier lists and maps
// become one "<key>: <value>" line per pair.
func NormalizePricing(p entity.Pricing) string {
	switch v := p.(type) {
	case entity.PricingText:
		return string(v)
	case entity.PricingTiers:
		return joinTierLines(v)
	case entity.PricingTierMap:
		return joinTierLines(v)
	default:
		return pricingPending
	}
}

func joinTierLines(lines []entity.TierLine) string {
	// No tiers reads as pricing not settled yet, never an empty field
	if len(lines) == 0 {
		return pricingPending
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

package domain

// Ranking weight keys known to the mobile client. The store tolerates keys
// outside this set; readers that only know the fixed set ignore them.
const (
	WeightFilename            = "filenameWeight"
	WeightContent             = "contentWeight"
	WeightPath                = "pathWeight"
	WeightFullMatchMultiplier = "fullMatchMultiplier"
	WeightExactPhraseBonus    = "exactPhraseBonus"
)

// DefaultRankingWeights returns the factory defaults written at first
// initialization and by the admin reset action.
func DefaultRankingWeights() map[string]float64 {
	return map[string]float64{
		WeightFilename:            200.0,
		WeightContent:             120.0,
		WeightPath:                80.0,
		WeightFullMatchMultiplier: 1.2,
		WeightExactPhraseBonus:    150.0,
	}
}

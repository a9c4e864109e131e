package entities

// TopPairsLimit is the number of pairs kept per wallet
const TopPairsLimit = 5

// WalletMetrics holds the volume metrics computed for one wallet over one day
type WalletMetrics struct {
	SwapsExecution     int      `json:"swaps_execution"`
	VolumeExecutionUSD float64  `json:"volume_execution_usd"`
	SwapsInvolved      int      `json:"swaps_involved"`
	VolumeInvolvedUSD  float64  `json:"volume_involved_usd"`
	TopPairs           []string `json:"top_pairs"`
}

// PairVolume is the USD volume a wallet executed on one pair
type PairVolume struct {
	Pair      string
	VolumeUSD float64
}

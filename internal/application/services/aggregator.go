package services

import (
	"sort"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// AggregateResult holds the finalized metrics of one aggregation pass
type AggregateResult struct {
	Wallets map[string]*entities.WalletMetrics

	// TotalSwaps counts distinct records across all three result sets
	TotalSwaps int

	// CoercedAmounts counts distinct records whose USD amount was missing or invalid
	CoercedAmounts int
}

// MergeSwaps merges result sets into distinct records keyed by ID.
// The first copy seen wins and first-seen order is kept.
func MergeSwaps(lists ...[]entities.SwapRecord) []entities.SwapRecord {
	seen := make(map[string]struct{})
	merged := make([]entities.SwapRecord, 0)

	for _, list := range lists {
		for _, swap := range list {
			if _, ok := seen[swap.ID]; ok {
				continue
			}
			seen[swap.ID] = struct{}{}
			merged = append(merged, swap)
		}
	}

	return merged
}

// Aggregate computes execution and involvement metrics for every requested address.
// Each distinct swap counts at most once per address per metric.
func Aggregate(addresses *entities.AddressSet, byOrigin, bySender, byRecipient []entities.SwapRecord) *AggregateResult {
	merged := MergeSwaps(byOrigin, bySender, byRecipient)

	wallets := make(map[string]*entities.WalletMetrics, addresses.Len())
	pairVolumes := make(map[string]map[string]float64, addresses.Len())
	for _, addr := range addresses.Slice() {
		wallets[addr] = &entities.WalletMetrics{TopPairs: []string{}}
		pairVolumes[addr] = make(map[string]float64)
	}

	result := &AggregateResult{
		Wallets:    wallets,
		TotalSwaps: len(merged),
	}

	for _, swap := range merged {
		if swap.AmountStatus != entities.AmountOK {
			result.CoercedAmounts++
		}
		amount := swap.SafeAmountUSD()

		// Execution: origin only
		if addresses.Contains(swap.Origin) {
			origin := entities.NormalizeAddress(swap.Origin)
			m := wallets[origin]
			m.SwapsExecution++
			m.VolumeExecutionUSD += amount
			pairVolumes[origin][swap.PairKey()] += amount
		}

		// Involvement: any role, once per address
		for _, addr := range swap.Participants() {
			if !addresses.Contains(addr) {
				continue
			}
			m := wallets[addr]
			m.SwapsInvolved++
			m.VolumeInvolvedUSD += amount
		}
	}

	for addr, m := range wallets {
		for _, p := range TopPairs(pairVolumes[addr], entities.TopPairsLimit) {
			m.TopPairs = append(m.TopPairs, entities.FormatPairVolume(p))
		}
	}

	return result
}

// TopPairs returns at most n pairs by descending volume; ties break by pair name
func TopPairs(volumes map[string]float64, n int) []entities.PairVolume {
	pairs := make([]entities.PairVolume, 0, len(volumes))
	for pair, vol := range volumes {
		pairs = append(pairs, entities.PairVolume{Pair: pair, VolumeUSD: vol})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].VolumeUSD != pairs[j].VolumeUSD {
			return pairs[i].VolumeUSD > pairs[j].VolumeUSD
		}
		return pairs[i].Pair < pairs[j].Pair
	})

	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

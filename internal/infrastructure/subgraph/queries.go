package subgraph

import (
	"fmt"
	"strconv"
)

// QueryKind selects which address field of a swap the query filters on
type QueryKind string

const (
	QueryByOrigin    QueryKind = "origin"
	QueryBySender    QueryKind = "sender"
	QueryByRecipient QueryKind = "recipient"
)

// AllQueryKinds lists the queries every endpoint must complete, in result order
var AllQueryKinds = []QueryKind{QueryByOrigin, QueryBySender, QueryByRecipient}

const swapsQueryTemplate = `query %s($addresses: [Bytes!]!, $start: BigInt!, $end: BigInt!, $first: Int!, $skip: Int!) {
  swaps(
    first: $first
    skip: $skip
    orderBy: timestamp
    orderDirection: asc
    where: {%s_in: $addresses, timestamp_gte: $start, timestamp_lte: $end}
  ) {
    id
    timestamp
    amountUSD
    origin
    sender
    recipient
    pool {
      feeTier
      token0 { symbol }
      token1 { symbol }
    }
  }
}`

// Query returns the GraphQL document for this query kind
func (k QueryKind) Query() string {
	return fmt.Sprintf(swapsQueryTemplate, k.operationName(), string(k))
}

func (k QueryKind) operationName() string {
	switch k {
	case QueryByOrigin:
		return "SwapsByOrigin"
	case QueryBySender:
		return "SwapsBySender"
	case QueryByRecipient:
		return "SwapsByRecipient"
	default:
		return "Swaps"
	}
}

// SwapFilter holds the base variables shared by every page request
type SwapFilter struct {
	Addresses []string
	Start     int64
	End       int64
}

// variables builds the GraphQL variables for one page
func (f SwapFilter) variables(first, skip int) map[string]interface{} {
	return map[string]interface{}{
		"addresses": f.Addresses,
		"start":     strconv.FormatInt(f.Start, 10),
		"end":       strconv.FormatInt(f.End, 10),
		"first":     first,
		"skip":      skip,
	}
}

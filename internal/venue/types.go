package venue

// Request types understood by the info endpoint.
const (
	reqSpotMeta           = "spotMeta"
	reqUserFills          = "userFills"
	reqUserFunding        = "userFunding"
	reqAllMids            = "allMids"
	reqOpenOrders         = "frontendOpenOrders"
	reqClearinghouseState = "clearinghouseState"
)

// Fill sides as reported by the venue.
const (
	sideBuy  = "B"
	sideSell = "A"
)

// Markers inside a fill's dir field ("Open Long", "Close Short", ...).
const (
	dirMarkerLong = "Long"
	dirMarkerOpen = "Open"
)

// RawFill is a fill record as returned by userFills. Prices, sizes and fees
// come over the wire as decimal strings.
type RawFill struct {
	Coin          string `json:"coin"`
	Px            string `json:"px"`
	Sz            string `json:"sz"`
	Side          string `json:"side"`
	Time          int64  `json:"time"`
	StartPosition string `json:"startPosition"`
	Dir           string `json:"dir"`
	ClosedPnl     string `json:"closedPnl"`
	Hash          string `json:"hash"`
	OID           int64  `json:"oid"`
	TID           int64  `json:"tid"`
	Fee           string `json:"fee"`
}

// RawFunding is a funding ledger record as returned by userFunding.
type RawFunding struct {
	Time  int64           `json:"time"`
	Hash  string          `json:"hash"`
	Delta RawFundingDelta `json:"delta"`
}

// RawFundingDelta carries the funding payment details.
type RawFundingDelta struct {
	Type        string `json:"type"`
	Coin        string `json:"coin"`
	USDC        string `json:"usdc"`
	Szi         string `json:"szi"`
	FundingRate string `json:"fundingRate"`
}

// RawOpenOrder is an open order as returned by frontendOpenOrders. Only
// position TP/SL trigger orders are of interest here.
type RawOpenOrder struct {
	Coin           string `json:"coin"`
	OrderType      string `json:"orderType"`
	TriggerPx      string `json:"triggerPx"`
	IsPositionTpsl bool   `json:"isPositionTpsl"`
	Side           string `json:"side"`
	Sz             string `json:"sz"`
	OID            int64  `json:"oid"`
}

// RawClearinghouseState is the account margin snapshot.
type RawClearinghouseState struct {
	AssetPositions []RawAssetPosition `json:"assetPositions"`
}

// RawAssetPosition wraps one asset's position entry.
type RawAssetPosition struct {
	Type     string      `json:"type"`
	Position RawPosition `json:"position"`
}

// RawPosition is the venue-reported margin state for one asset. Szi is the
// signed position size: positive long, negative short.
type RawPosition struct {
	Coin           string      `json:"coin"`
	Szi            string      `json:"szi"`
	EntryPx        string      `json:"entryPx"`
	PositionValue  string      `json:"positionValue"`
	UnrealizedPnl  string      `json:"unrealizedPnl"`
	LiquidationPx  string      `json:"liquidationPx"`
	MarginUsed     string      `json:"marginUsed"`
	Leverage       RawLeverage `json:"leverage"`
	ReturnOnEquity string      `json:"returnOnEquity"`
}

// RawLeverage is the leverage descriptor on a position.
type RawLeverage struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// RawSpotMeta is the spot universe metadata.
type RawSpotMeta struct {
	Universe []RawSpotPair  `json:"universe"`
	Tokens   []RawSpotToken `json:"tokens"`
}

// RawSpotPair describes one spot pair; Tokens holds [base, quote] indices.
type RawSpotPair struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Tokens []int  `json:"tokens"`
}

// RawSpotToken describes one spot token.
type RawSpotToken struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// infoRequest is the request body posted to the info endpoint.
type infoRequest struct {
	Type            string `json:"type"`
	User            string `json:"user,omitempty"`
	AggregateByTime bool   `json:"aggregateByTime,omitempty"`
	StartTime       int64  `json:"startTime,omitempty"`
}

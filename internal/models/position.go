package models

// OpenPosition represents live, still-open exposure valued against the
// current mark price. Positions are recomputed on every valuation call and
// never persisted.
type OpenPosition struct {
	Asset            string
	DisplayName      string
	Direction        Direction
	Size             float64
	EntryPrice       float64 // volume-weighted
	MarkPrice        float64
	UnrealizedPnL    float64
	Leverage         float64
	LiquidationPrice *float64 // nil when the venue reports no liquidation level
	MarginUsed       float64
	PositionValue    float64
	TakeProfit       *float64
	StopLoss         *float64
}

// MarginState carries venue-reported margin figures for one asset. The
// formulae behind these values are venue-specific; they are inputs here,
// not derived.
type MarginState struct {
	Asset            string
	Leverage         float64
	LiquidationPrice *float64
	MarginUsed       float64
	PositionValue    float64
	UnrealizedPnL    float64
	EntryPrice       float64
	Size             float64 // signed: positive long, negative short
}

// TriggerLevels holds take-profit and stop-loss trigger prices attached to
// a position via resting trigger orders.
type TriggerLevels struct {
	TakeProfit *float64
	StopLoss   *float64
}

// PositionSnapshot is the joined result of the three concurrent account
// reads needed to value open positions. All three parts come from the same
// fan-out; a partial snapshot is never produced.
type PositionSnapshot struct {
	Margins  map[string]MarginState
	Marks    map[string]float64
	Triggers map[string]TriggerLevels
}

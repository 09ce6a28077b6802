package models

// Outlook status values
const (
	OutlookStrengthening = "strengthening"
	OutlookSoftening     = "softening"
	OutlookStable        = "stable"
)

// DataState distinguishes a real outlook from an empty or failed one. The
// Metric string stays displayable in all three cases.
type DataState string

const (
	DataStateOK    DataState = "ok"
	DataStateEmpty DataState = "empty"
	DataStateError DataState = "error"
)

// OutlookDebug carries the raw split-half averages. Diagnostic only, not
// part of the stable contract.
type OutlookDebug struct {
	PastSupply   float64 `json:"past_supply"`
	RecentSupply float64 `json:"recent_supply"`
	PastWap      float64 `json:"past_wap"`
	RecentWap    float64 `json:"recent_wap"`
	WindowDays   int     `json:"window_days"`
}

// OutlookResult is the city-level trend classification
type OutlookResult struct {
	Status    string       `json:"status"`
	Metric    string       `json:"metric"`
	DataState DataState    `json:"data_state"`
	Debug     OutlookDebug `json:"debug"`
}

package models

// FunctionRequest is the JSON body accepted by every analytics endpoint.
// Fields not relevant to an endpoint are ignored.
type FunctionRequest struct {
	AccountID        string `json:"account_id"`
	ReportType       string `json:"report_type,omitempty"`
	OptimizationType string `json:"optimization_type,omitempty"`
	Action           string `json:"action,omitempty"`
	Region           string `json:"region,omitempty"`
	Species          string `json:"species,omitempty"`
	PeriodStart      string `json:"period_start,omitempty"`
	PeriodEnd        string `json:"period_end,omitempty"`
}

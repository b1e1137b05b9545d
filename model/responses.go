// api/model/responses.go
package model

// Response envelopes aligned with the Solidity-contract interface: a
// responseCode of 0 means success, the operation-specific payload is
// nested under its own key.

type RegistrationResponse struct {
	ResponseCode         int                    `json:"responseCode"`
	CbsdID               string                 `json:"cbsdId"`
	RegistrationResponse map[string]interface{} `json:"registrationResponse"`
}

type GrantResponse struct {
	ResponseCode  int                    `json:"responseCode"`
	CbsdID        string                 `json:"cbsdId"`
	GrantResponse map[string]interface{} `json:"grantResponse"`
}

type RelinquishmentResponse struct {
	ResponseCode           int                    `json:"responseCode"`
	CbsdID                 string                 `json:"cbsdId"`
	RelinquishmentResponse map[string]interface{} `json:"relinquishmentResponse"`
}

type DeregistrationResponse struct {
	ResponseCode           int                    `json:"responseCode"`
	CbsdID                 string                 `json:"cbsdId"`
	DeregistrationResponse map[string]interface{} `json:"deregistrationResponse"`
}

// Stats mirrors the contract's public counters.
type Stats struct {
	TotalCbsds    int64  `json:"totalCbsds"`
	TotalGrants   int64  `json:"totalGrants"`
	TotalEvents   int64  `json:"totalEvents"`
	AuthorizedSAS int64  `json:"authorizedSAS"`
	Timestamp     string `json:"timestamp"`
}

// ActivityDump is the full-activity-dump document of the exchange
// interface: every CBSD and grant record plus the counters, assembled at
// request time.
type ActivityDump struct {
	GeneratedAt string  `json:"generatedAt"`
	Cbsds       []Cbsd  `json:"cbsds"`
	Grants      []Grant `json:"grants"`
	Totals      Stats   `json:"totals"`
}

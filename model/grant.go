// api/model/grant.go
package model

import "time"

// Grant states. Grants move GRANTED -> TERMINATED (AUTHORIZED is reserved
// for the heartbeat flow, which this service records but does not drive).
const (
	GrantStateGranted    = "GRANTED"
	GrantStateAuthorized = "AUTHORIZED"
	GrantStateTerminated = "TERMINATED"
)

// Grant is a spectrum grant issued against a registered CBSD. Requested
// and granted terms are tracked separately but never recomputed; this
// service stores what the requesting SAS submitted.
type Grant struct {
	ID                     int64      `json:"-"`
	GrantID                string     `json:"grantId"`
	FccID                  string     `json:"fccId"`
	CbsdSerialNumber       string     `json:"cbsdSerialNumber"`
	ChannelType            string     `json:"channelType"` // GAA or PAL
	MaxEirp                int64      `json:"maxEirp"`
	LowFrequency           int64      `json:"lowFrequency"`
	HighFrequency          int64      `json:"highFrequency"`
	RequestedMaxEirp       int64      `json:"requestedMaxEirp"`
	RequestedLowFrequency  int64      `json:"requestedLowFrequency"`
	RequestedHighFrequency int64      `json:"requestedHighFrequency"`
	GrantExpireTime        int64      `json:"grantExpireTime"`
	TransmitExpireTime     *int64     `json:"transmitExpireTime,omitempty"`
	State                  string     `json:"state"`
	Terminated             bool       `json:"terminated"`
	SASOrigin              string     `json:"sasOrigin"`
	GrantTimestamp         int64      `json:"grantTimestamp"`
	CreatedAt              time.Time  `json:"-"`
	UpdatedAt              *time.Time `json:"-"`
}

// api/model/requests.go
package model

// RegistrationRequest is the canonical CBSD registration payload.
// Numeric antenna/location fields are passed through without range
// validation; zero is a legal value for all of them.
type RegistrationRequest struct {
	FccID            string   `json:"fccId" binding:"required"`
	UserID           string   `json:"userId" binding:"required"`
	CbsdSerialNumber string   `json:"cbsdSerialNumber" binding:"required"`
	CallSign         string   `json:"callSign"`
	CbsdCategory     string   `json:"cbsdCategory" binding:"required"`
	AirInterface     string   `json:"airInterface"`
	MeasCapability   []string `json:"measCapability"`
	EirpCapability   int64    `json:"eirpCapability"`
	Latitude         int64    `json:"latitude"`
	Longitude        int64    `json:"longitude"`
	Height           int64    `json:"height"`
	HeightType       string   `json:"heightType" binding:"required"`
	IndoorDeployment bool     `json:"indoorDeployment"`
	AntennaGain      int64    `json:"antennaGain"`
	AntennaBeamwidth int64    `json:"antennaBeamwidth"`
	AntennaAzimuth   int64    `json:"antennaAzimuth"`
	GroupingParam    string   `json:"groupingParam"`
	CbsdAddress      string   `json:"cbsdAddress" binding:"required"`
}

// GrantRequest asks for a spectrum grant on a registered CBSD.
type GrantRequest struct {
	FccID                  string `json:"fccId" binding:"required"`
	CbsdSerialNumber       string `json:"cbsdSerialNumber" binding:"required"`
	ChannelType            string `json:"channelType" binding:"required"`
	MaxEirp                int64  `json:"maxEirp"`
	LowFrequency           int64  `json:"lowFrequency"`
	HighFrequency          int64  `json:"highFrequency"`
	RequestedMaxEirp       int64  `json:"requestedMaxEirp"`
	RequestedLowFrequency  int64  `json:"requestedLowFrequency"`
	RequestedHighFrequency int64  `json:"requestedHighFrequency"`
	GrantExpireTime        int64  `json:"grantExpireTime"`
}

// RelinquishmentRequest terminates an existing grant.
type RelinquishmentRequest struct {
	FccID            string `json:"fccId" binding:"required"`
	CbsdSerialNumber string `json:"cbsdSerialNumber" binding:"required"`
	GrantID          string `json:"grantId" binding:"required"`
}

// DeregistrationRequest removes a registered CBSD.
type DeregistrationRequest struct {
	FccID            string `json:"fccId" binding:"required"`
	CbsdSerialNumber string `json:"cbsdSerialNumber" binding:"required"`
}

// SASAuthorizationRequest is the admin authorize/revoke payload.
type SASAuthorizationRequest struct {
	SASAddress string `json:"sas_address" binding:"required"`
}

// api/model/cbsd.go
package model

import "time"

// Cbsd is a registered CBSD (Citizens Broadband Radio Service Device).
// The wire representation matches the SAS-SAS record format; the numeric
// ID is a store-internal surrogate and never leaves the service.
type Cbsd struct {
	ID                    int64      `json:"-"`
	FccID                 string     `json:"fccId"`
	UserID                string     `json:"userId"`
	CbsdSerialNumber      string     `json:"cbsdSerialNumber"`
	CallSign              string     `json:"callSign"`
	CbsdCategory          string     `json:"cbsdCategory"` // A or B
	AirInterface          string     `json:"airInterface"`
	MeasCapability        []string   `json:"measCapability"`
	EirpCapability        int64      `json:"eirpCapability"`
	Latitude              int64      `json:"latitude"`
	Longitude             int64      `json:"longitude"`
	Height                int64      `json:"height"`
	HeightType            string     `json:"heightType"` // AGL or AMSL
	IndoorDeployment      bool       `json:"indoorDeployment"`
	AntennaGain           int64      `json:"antennaGain"`
	AntennaBeamwidth      int64      `json:"antennaBeamwidth"`
	AntennaAzimuth        int64      `json:"antennaAzimuth"`
	GroupingParam         string     `json:"groupingParam"`
	CbsdAddress           string     `json:"cbsdAddress"`
	SASOrigin             string     `json:"sasOrigin"`
	RegistrationTimestamp int64      `json:"registrationTimestamp"`
	CreatedAt             time.Time  `json:"-"`
	UpdatedAt             *time.Time `json:"-"`
}

// CbsdRecord is the push-style SAS-SAS exchange payload. It carries the
// record id (the serial number in this exchange dialect) in the body and
// does not include the origin bookkeeping fields.
type CbsdRecord struct {
	ID               string   `json:"id" binding:"required"`
	FccID            string   `json:"fccId" binding:"required"`
	UserID           string   `json:"userId" binding:"required"`
	CbsdSerialNumber string   `json:"cbsdSerialNumber" binding:"required"`
	CallSign         string   `json:"callSign"`
	CbsdCategory     string   `json:"cbsdCategory"`
	AirInterface     string   `json:"airInterface"`
	MeasCapability   []string `json:"measCapability"`
	EirpCapability   int64    `json:"eirpCapability"`
	Latitude         int64    `json:"latitude"`
	Longitude        int64    `json:"longitude"`
	Height           int64    `json:"height"`
	HeightType       string   `json:"heightType"`
	IndoorDeployment bool     `json:"indoorDeployment"`
	AntennaGain      int64    `json:"antennaGain"`
	AntennaBeamwidth int64    `json:"antennaBeamwidth"`
	AntennaAzimuth   int64    `json:"antennaAzimuth"`
	GroupingParam    string   `json:"groupingParam"`
	CbsdAddress      string   `json:"cbsdAddress"`
}

// ZoneRecord is the simplified zone exchange payload.
type ZoneRecord struct {
	ID       string                 `json:"id" binding:"required"`
	Name     string                 `json:"name"`
	Type     string                 `json:"type"`
	Geometry map[string]interface{} `json:"geometry"`
}

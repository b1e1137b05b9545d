// api/util/validation_util.go

package util

import (
	"fmt"

	"github.com/openspectrum/sas-registry/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

// ValidateRegistration checks the enumerated fields of a registration
// request. Numeric fields (EIRP, coordinates, antenna parameters) pass
// through unvalidated: this layer keeps no radio-engineering knowledge.
func (v *ValidationUtil) ValidateRegistration(req model.RegistrationRequest) error {
	if req.CbsdCategory != "A" && req.CbsdCategory != "B" {
		return fmt.Errorf("cbsdCategory must be either 'A' or 'B'")
	}
	if req.HeightType != "AGL" && req.HeightType != "AMSL" {
		return fmt.Errorf("heightType must be either 'AGL' or 'AMSL'")
	}
	// Add more validation rules as needed
	return nil
}

// ValidateGrant checks the enumerated fields of a grant request.
// Frequency bounds are stored verbatim and deliberately not compared.
func (v *ValidationUtil) ValidateGrant(req model.GrantRequest) error {
	if req.ChannelType != "GAA" && req.ChannelType != "PAL" {
		return fmt.Errorf("channelType must be either 'GAA' or 'PAL'")
	}
	// Add more validation rules as needed
	return nil
}

// ValidateSASAddress rejects empty peer addresses.
func (v *ValidationUtil) ValidateSASAddress(address string) error {
	if address == "" {
		return fmt.Errorf("sas_address cannot be empty")
	}
	return nil
}

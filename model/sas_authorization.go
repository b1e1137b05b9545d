// api/model/sas_authorization.go
package model

import "time"

// SASAuthorization records whether a peer SAS address may submit mutating
// requests. Rows are never deleted; revocation flips the flag.
type SASAuthorization struct {
	ID         int64      `json:"-"`
	SASAddress string     `json:"sas_address"`
	Authorized bool       `json:"authorized"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  *time.Time `json:"-"`
}

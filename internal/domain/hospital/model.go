package hospital

import (
	"time"

	"github.com/google/uuid"
)

// Hospital is the tenant record whose identity fields feed letterhead
// templates at render time.
type Hospital struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Address        *string   `db:"address" json:"address,omitempty"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	TaxID          *string   `db:"tax_id" json:"tax_id,omitempty"`
	RegistrationNo *string   `db:"registration_no" json:"registration_no,omitempty"`
	LogoURL        *string   `db:"logo_url" json:"logo_url,omitempty"`
	LetterheadURL  *string   `db:"letterhead_url" json:"letterhead_url,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FieldValues flattens the hospital into the symbolic field-key map consumed
// by the template field resolver. Missing optional fields are simply absent.
func (h *Hospital) FieldValues() map[string]string {
	values := map[string]string{
		"hospital_name": h.Name,
	}
	set := func(key string, v *string) {
		if v != nil && *v != "" {
			values[key] = *v
		}
	}
	set("hospital_address", h.Address)
	set("hospital_phone", h.Phone)
	set("hospital_email", h.Email)
	set("hospital_tax_id", h.TaxID)
	set("hospital_reg_no", h.RegistrationNo)
	return values
}

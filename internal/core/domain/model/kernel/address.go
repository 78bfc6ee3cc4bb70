package kernel

import (
	"errors"
	"strings"

	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned by Validate for a zero-value Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is a contact snapshot taken when an order is placed. Later edits to
// the customer's address book never touch orders already submitted.
type Address struct {
	name     string
	phone    string
	mobile   string
	province string
	city     string
	district string
	town     string
	detail   string
	guard    guard.ConstructorGuard
}

// AddressParams carries the raw fields used to build an Address.
type AddressParams struct {
	Name     string
	Phone    string
	Mobile   string
	Province string
	City     string
	District string
	Town     string
	Detail   string
}

// NewAddress trims every field and requires a name, at least one of phone or
// mobile, province, city and the street detail.
func NewAddress(p AddressParams) (Address, error) {
	a := Address{
		name:     strings.TrimSpace(p.Name),
		phone:    strings.TrimSpace(p.Phone),
		mobile:   strings.TrimSpace(p.Mobile),
		province: strings.TrimSpace(p.Province),
		city:     strings.TrimSpace(p.City),
		district: strings.TrimSpace(p.District),
		town:     strings.TrimSpace(p.Town),
		detail:   strings.TrimSpace(p.Detail),
		guard:    guard.NewConstructorGuard(),
	}

	var contactErr error
	if a.phone == "" && a.mobile == "" {
		contactErr = errs.NewValueIsRequiredError("phone or mobile")
	}

	if err := errors.Join(
		required("name", a.name),
		contactErr,
		required("province", a.province),
		required("city", a.city),
		required("detail", a.detail),
	); err != nil {
		return Address{}, err
	}

	return a, nil
}

func required(param, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}

// Validate reports whether the address was built by NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Name() string     { return a.name }
func (a Address) Phone() string    { return a.phone }
func (a Address) Mobile() string   { return a.mobile }
func (a Address) Province() string { return a.province }
func (a Address) City() string     { return a.city }
func (a Address) District() string { return a.district }
func (a Address) Town() string     { return a.town }
func (a Address) Detail() string   { return a.detail }

// Params returns the fields in their constructor form.
func (a Address) Params() AddressParams {
	return AddressParams{
		Name:     a.name,
		Phone:    a.phone,
		Mobile:   a.mobile,
		Province: a.province,
		City:     a.city,
		District: a.district,
		Town:     a.town,
		Detail:   a.detail,
	}
}

// Contact prefers the mobile number.
func (a Address) Contact() string {
	if a.mobile != "" {
		return a.mobile
	}
	return a.phone
}

// String renders the postal form, skipping empty parts.
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.province, a.city, a.district, a.town, a.detail} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// IsEqual compares all address fields.
func (a Address) IsEqual(other Address) bool {
	return a.Params() == other.Params()
}

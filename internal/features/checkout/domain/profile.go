package domain

// Province is one entry of the destination list.
type Province struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Profile is the authenticated customer as the shop backend returns it.
type Profile struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	NifCif            string `json:"nifCif"`
	Address           string `json:"address"`
	City              string `json:"city"`
	Province          string `json:"province"`
	PostalCode        string `json:"postalCode"`
	BillingAddress    string `json:"billingAddress"`
	BillingCity       string `json:"billingCity"`
	BillingProvince   string `json:"billingProvince"`
	BillingPostalCode string `json:"billingPostalCode"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// PrefillDraft copies profile data into the form. Billing falls back to the
// shipping values, and the separate billing block stays closed unless the
// profile has its own billing address.
func (p Profile) PrefillDraft(d *OrderDraft) {
	d.Customer = Customer{
		Name:     p.FirstName,
		LastName: p.LastName,
		Email:    p.Email,
		Phone:    p.Phone,
		NifCif:   p.NifCif,
	}
	d.Shipping = Address{
		Street:     p.Address,
		City:       p.City,
		Province:   p.Province,
		PostalCode: p.PostalCode,
	}
	d.Billing = Address{
		Street:     firstNonEmpty(p.BillingAddress, p.Address),
		City:       firstNonEmpty(p.BillingCity, p.City),
		Province:   firstNonEmpty(p.BillingProvince, p.Province),
		PostalCode: firstNonEmpty(p.BillingPostalCode, p.PostalCode),
	}
	d.UseSameAddress = p.BillingAddress == ""
}

package telco

// CustomerInfo is the payload returned by GetCustomerInfo.
type CustomerInfo struct {
	Name               string         `json:"name"`
	CustomerID         string         `json:"customerId"`
	AccountStatus      string         `json:"accountStatus"`
	NumberOfPhoneLines int            `json:"numberOfPhoneLines"`
	PhoneLines         []PhoneLine    `json:"phoneLines"`
	BillingAddress     BillingAddress `json:"billingAddress"`
}

// GetCustomerInfo authenticates a customer by phone number and 4-digit
// password and returns the account overview.
func (s *Service) GetCustomerInfo(phoneNumber, password string) (*CustomerInfo, *DomainError) {
	if !validPhoneNumber(phoneNumber) {
		return nil, domainErr("Invalid phone number format. Use +1-XXX-XXXX")
	}
	if !validPassword(password) {
		return nil, domainErr("Invalid password format. Must be 4 digits")
	}

	customer, ok := s.customers.Lookup(phoneNumber)
	if !ok {
		return nil, domainErr("Customer not found")
	}
	if customer.Password != password {
		return nil, domainErr("Incorrect password")
	}

	return &CustomerInfo{
		Name:               customer.Name,
		CustomerID:         customer.CustomerID,
		AccountStatus:      customer.AccountStatus,
		NumberOfPhoneLines: len(customer.PhoneLines),
		PhoneLines:         customer.PhoneLines,
		BillingAddress:     customer.BillingAddress,
	}, nil
}

// LocationInfo is the payload returned by GetLocationInfo.
type LocationInfo struct {
	PhoneNumber string  `json:"phoneNumber"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	LastUpdated string  `json:"lastUpdated"`
}

// GetLocationInfo returns the last known location for a customer's line.
func (s *Service) GetLocationInfo(phoneNumber string) (*LocationInfo, *DomainError) {
	if !validPhoneNumber(phoneNumber) {
		return nil, domainErr("Invalid phone number format. Use +1-XXX-XXXX")
	}

	customer, ok := s.customers.Lookup(phoneNumber)
	if !ok {
		return nil, domainErr("Customer not found")
	}

	return &LocationInfo{
		PhoneNumber: phoneNumber,
		City:        customer.Location.City,
		State:       customer.Location.State,
		Latitude:    customer.Location.Latitude,
		Longitude:   customer.Location.Longitude,
		LastUpdated: customer.Location.LastUpdated.Format(rfc3339Millis),
	}, nil
}

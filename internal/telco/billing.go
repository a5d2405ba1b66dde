package telco

import "math"

// BillingSummary aggregates a customer's invoices and credits.
type BillingSummary struct {
	TotalPaid      float64 `json:"totalPaid"`
	TotalPending   float64 `json:"totalPending"`
	TotalCredits   float64 `json:"totalCredits"`
	AccountBalance float64 `json:"accountBalance"`
}

// BillingHistory is the payload returned by GetBillingHistory.
type BillingHistory struct {
	PhoneNumber    string         `json:"phoneNumber"`
	CustomerName   string         `json:"customerName"`
	Summary        BillingSummary `json:"summary"`
	BillingHistory []Invoice      `json:"billingHistory"`
	Credits        []Credit       `json:"credits"`
}

// GetBillingHistory returns invoices, credits and the account balance
// for a customer. The balance is pending charges minus credits, so a
// fully paid account with credits carries a negative balance.
func (s *Service) GetBillingHistory(phoneNumber string) (*BillingHistory, *DomainError) {
	if !validPhoneNumber(phoneNumber) {
		return nil, domainErr("Invalid phone number format. Use +1-XXX-XXXX")
	}

	customer, ok := s.customers.Lookup(phoneNumber)
	if !ok {
		return nil, domainErr("Customer not found")
	}

	var totalPaid, totalPending, totalCredits float64
	for _, inv := range customer.BillingHistory {
		switch inv.Status {
		case "Paid":
			totalPaid += inv.Amount
		case "Pending":
			totalPending += inv.Amount
		}
	}
	for _, cr := range customer.Credits {
		totalCredits += cr.Amount
	}

	return &BillingHistory{
		PhoneNumber:  phoneNumber,
		CustomerName: customer.Name,
		Summary: BillingSummary{
			TotalPaid:      round2(totalPaid),
			TotalPending:   round2(totalPending),
			TotalCredits:   round2(totalCredits),
			AccountBalance: round2(totalPending - totalCredits),
		},
		BillingHistory: customer.BillingHistory,
		Credits:        customer.Credits,
	}, nil
}

// round2 keeps summed currency amounts at cent precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

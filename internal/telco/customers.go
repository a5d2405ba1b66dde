package telco

import "time"

// BillingAddress is a customer's address on file.
type BillingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// PhoneLine is one line on a customer account.
type PhoneLine struct {
	LineNumber  int    `json:"lineNumber"`
	PhoneNumber string `json:"phoneNumber"`
	PhoneType   string `json:"phoneType"`
	IMEI        string `json:"imei"`
	Plan        string `json:"plan"`
	Status      string `json:"status"`
}

// Location is the last known location for a customer's primary line.
type Location struct {
	City        string    `json:"city"`
	State       string    `json:"state"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Invoice is one billing history entry.
type Invoice struct {
	InvoiceID     string  `json:"invoiceId"`
	BillingDate   string  `json:"billingDate"`
	DueDate       string  `json:"dueDate"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentDate   *string `json:"paymentDate"`
	PaymentMethod *string `json:"paymentMethod"`
}

// Credit is an account credit applied to a customer.
type Credit struct {
	CreditID    string  `json:"creditId"`
	Amount      float64 `json:"amount"`
	Reason      string  `json:"reason"`
	AppliedDate string  `json:"appliedDate"`
	Status      string  `json:"status"`
}

// Customer is one account in the customer store.
type Customer struct {
	Password       string
	Name           string
	CustomerID     string
	AccountStatus  string
	BillingAddress BillingAddress
	PhoneLines     []PhoneLine
	Location       Location
	BillingHistory []Invoice
	Credits        []Credit
}

// CustomerStore is a read-only, in-memory customer table keyed by
// primary phone number. It is populated once at startup and safe for
// concurrent reads.
type CustomerStore struct {
	customers map[string]*Customer
}

// Lookup returns the customer for a phone number.
func (s *CustomerStore) Lookup(phone string) (*Customer, bool) {
	c, ok := s.customers[phone]
	return c, ok
}

func strPtr(s string) *string { return &s }

// NewCustomerStore builds the fixture customer table.
func NewCustomerStore() *CustomerStore {
	now := time.Now().UTC()
	return &CustomerStore{customers: map[string]*Customer{
		"+1-555-0001": {
			Password:      "1234",
			Name:          "John Anderson",
			CustomerID:    "CUST-10001",
			AccountStatus: "Active",
			BillingAddress: BillingAddress{
				Street:  "123 Main Street",
				City:    "San Francisco",
				State:   "CA",
				ZipCode: "94102",
				Country: "USA",
			},
			PhoneLines: []PhoneLine{
				{
					LineNumber:  1,
					PhoneNumber: "+1-555-0001",
					PhoneType:   "iPhone 14 Pro",
					IMEI:        "353456789012345",
					Plan:        "Unlimited Premium",
					Status:      "Active",
				},
				{
					LineNumber:  2,
					PhoneNumber: "+1-555-0002",
					PhoneType:   "Samsung Galaxy S23",
					IMEI:        "353456789012346",
					Plan:        "Family Share",
					Status:      "Active",
				},
			},
			Location: Location{
				City:        "San Francisco",
				State:       "CA",
				Latitude:    37.7749,
				Longitude:   -122.4194,
				LastUpdated: now,
			},
			BillingHistory: []Invoice{
				{
					InvoiceID:     "INV-2024-001",
					BillingDate:   "2024-12-01",
					DueDate:       "2024-12-15",
					Amount:        189.99,
					Status:        "Paid",
					PaymentDate:   strPtr("2024-12-10"),
					PaymentMethod: strPtr("Credit Card"),
				},
				{
					InvoiceID:     "INV-2024-002",
					BillingDate:   "2024-11-01",
					DueDate:       "2024-11-15",
					Amount:        189.99,
					Status:        "Paid",
					PaymentDate:   strPtr("2024-11-08"),
					PaymentMethod: strPtr("Auto-Pay"),
				},
			},
			Credits: []Credit{
				{
					CreditID:    "CR-2024-001",
					Amount:      25.00,
					Reason:      "Service interruption credit",
					AppliedDate: "2024-11-15",
					Status:      "Applied",
				},
			},
		},
		"+1-555-0100": {
			Password:      "5678",
			Name:          "Sarah Martinez",
			CustomerID:    "CUST-10002",
			AccountStatus: "Active",
			BillingAddress: BillingAddress{
				Street:  "456 Oak Avenue",
				City:    "Austin",
				State:   "TX",
				ZipCode: "78701",
				Country: "USA",
			},
			PhoneLines: []PhoneLine{
				{
					LineNumber:  1,
					PhoneNumber: "+1-555-0100",
					PhoneType:   "Google Pixel 8",
					IMEI:        "353456789012347",
					Plan:        "Business Unlimited",
					Status:      "Active",
				},
			},
			Location: Location{
				City:        "Austin",
				State:       "TX",
				Latitude:    30.2672,
				Longitude:   -97.7431,
				LastUpdated: now,
			},
			BillingHistory: []Invoice{
				{
					InvoiceID:   "INV-2024-003",
					BillingDate: "2024-12-01",
					DueDate:     "2024-12-15",
					Amount:      95.99,
					Status:      "Pending",
				},
			},
			Credits: []Credit{},
		},
	}}
}

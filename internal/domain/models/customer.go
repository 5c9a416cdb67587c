package models

import "strings"

// CustomerType distinguishes private renters from businesses.
type CustomerType string

const (
	CustomerIndividual CustomerType = "Individual"
	CustomerCompany    CustomerType = "Company"
)

// CustomerStatus marks whether a customer can still rent.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "Active"
	CustomerInactive CustomerStatus = "InActive"
)

// Customer is a rental customer stored under the customers path.
type Customer struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	ShortName string         `json:"shortName"`
	Phone     string         `json:"phone"`
	Email     string         `json:"email"`
	Type      CustomerType   `json:"type"`
	GSTNumber string         `json:"gstNumber"`
	Address   string         `json:"address"`
	Status    CustomerStatus `json:"status"`
	CreatedAt int64          `json:"createdAt"`
	UpdatedAt int64          `json:"updatedAt,omitempty"`
}

// CustomerInput is the writable subset of a customer.
type CustomerInput struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Type      string `json:"type"`
	GSTNumber string `json:"gstNumber"`
	Address   string `json:"address"`
	Status    string `json:"status"`
}

// ParseCustomerType returns the matching type, defaulting to Individual.
func ParseCustomerType(value string) (CustomerType, bool) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return CustomerIndividual, true
	case strings.EqualFold(value, string(CustomerIndividual)):
		return CustomerIndividual, true
	case strings.EqualFold(value, string(CustomerCompany)):
		return CustomerCompany, true
	}
	return "", false
}

// ParseCustomerStatus returns the matching status, defaulting to Active.
func ParseCustomerStatus(value string) (CustomerStatus, bool) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return CustomerActive, true
	case strings.EqualFold(value, string(CustomerActive)):
		return CustomerActive, true
	case strings.EqualFold(value, string(CustomerInactive)):
		return CustomerInactive, true
	}
	return "", false
}

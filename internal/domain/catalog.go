package domain

import (
	"fmt"
	"strings"
)

// Service is a catalog item a customer can book
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           float64
	CategoryID      *int64
	Active          bool
}

// Branch is a salon location
type Branch struct {
	ID      int64
	Name    string
	Address string
}

// Beautician is a staff member from the user directory with the beautician role
type Beautician struct {
	ID       int64
	FullName string
	Username string
	Email    string
	BranchID *int64
}

// Customer is the booking actor
type Customer struct {
	ID       int64
	FullName string
	Username string
	Email    string
}

// ServiceBeautician declares that a beautician is qualified to perform a service
type ServiceBeautician struct {
	BeauticianID int64
	ServiceID    int64
}

// BeauticianDisplayName is the single place that labels a beautician.
// Fallback order: full name, username, email, "#<id>".
func BeauticianDisplayName(b *Beautician) string {
	if b == nil {
		return ""
	}
	return firstNonEmpty(b.ID, b.FullName, b.Username, b.Email)
}

// CustomerDisplayName labels a customer with the same fallback order as beauticians.
func CustomerDisplayName(c *Customer) string {
	if c == nil {
		return ""
	}
	return firstNonEmpty(c.ID, c.FullName, c.Username, c.Email)
}

// ServiceDisplayName labels a catalog service, falling back to "#<id>".
func ServiceDisplayName(s *Service) string {
	if s == nil {
		return ""
	}
	return firstNonEmpty(s.ID, s.Name)
}

func firstNonEmpty(id int64, candidates ...string) string {
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			return trimmed
		}
	}
	return fmt.Sprintf("#%d", id)
}

// TotalDuration sums durations of the services
func TotalDuration(services []*Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}

// TotalPrice sums prices of the services
func TotalPrice(services []*Service) float64 {
	total := 0.0
	for _, s := range services {
		total += s.Price
	}
	return total
}

package domain

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ServiceSchedule is the fixed set of charges added to every build request.
type ServiceSchedule struct {
	Shipping   float64 `json:"shipping"`
	Technician float64 `json:"technician"`
	Warranty   float64 `json:"warranty"`
}

var DefaultServiceSchedule = ServiceSchedule{Shipping: 29.99, Technician: 149.99, Warranty: 49.99}

func (s ServiceSchedule) Total() float64 {
	return roundCents(s.Shipping + s.Technician + s.Warranty)
}

type CustomerInfo struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Phone               string `json:"phone,omitempty"`
	Address             string `json:"address"`
	City                string `json:"city"`
	ZipCode             string `json:"zipCode,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// Missing lists the blank contact fields a request cannot go without.
func (c CustomerInfo) Missing() []string {
	var out []string
	if strings.TrimSpace(c.Name) == "" {
		out = append(out, "name")
	}
	if strings.TrimSpace(c.Email) == "" {
		out = append(out, "email")
	}
	if strings.TrimSpace(c.Address) == "" {
		out = append(out, "address")
	}
	return out
}

type BuildLine struct {
	Category  Category  `json:"category"`
	Component Component `json:"component"`
}

type BuildPricing struct {
	ComponentsTotal float64         `json:"componentsTotal"`
	ServiceCharges  ServiceSchedule `json:"serviceCharges"`
	ServiceTotal    float64         `json:"serviceTotal"`
	GrandTotal      float64         `json:"grandTotal"`
}

// BuildRequest is the assembly and delivery request handed to a Submitter.
type BuildRequest struct {
	Components   []BuildLine  `json:"components"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
	Pricing      BuildPricing `json:"pricing"`
}

// ComposeRequest flattens the selection and prices it against schedule.
func ComposeRequest(s *Selection, schedule ServiceSchedule, customer CustomerInfo) (*BuildRequest, error) {
	var lines []BuildLine
	total := 0.0
	if s != nil {
		s.Each(func(cat Category, c Component) {
			lines = append(lines, BuildLine{Category: cat, Component: c})
			total += c.Price
		})
	}
	missing := customer.Missing()
	if len(lines) == 0 {
		missing = append([]string{"components"}, missing...)
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing, Reason: "build request is incomplete"}
	}
	total = roundCents(total)
	svc := schedule.Total()
	return &BuildRequest{
		Components:   lines,
		CustomerInfo: customer,
		Pricing: BuildPricing{
			ComponentsTotal: total,
			ServiceCharges:  schedule,
			ServiceTotal:    svc,
			GrandTotal:      roundCents(total + svc),
		},
	}, nil
}

func roundCents(v float64) float64 { return math.Round(v*100) / 100 }

type BuildRequestStatus string

const (
	BuildRequestPending    BuildRequestStatus = "pending"
	BuildRequestConfirmed  BuildRequestStatus = "confirmed"
	BuildRequestAssembling BuildRequestStatus = "assembling"
	BuildRequestShipped    BuildRequestStatus = "shipped"
	BuildRequestCancelled  BuildRequestStatus = "cancelled"
)

var requestTransitions = map[BuildRequestStatus][]BuildRequestStatus{
	BuildRequestPending:    {BuildRequestConfirmed, BuildRequestCancelled},
	BuildRequestConfirmed:  {BuildRequestAssembling, BuildRequestCancelled},
	BuildRequestAssembling: {BuildRequestShipped, BuildRequestCancelled},
}

func ParseBuildRequestStatus(v string) (BuildRequestStatus, error) {
	st := BuildRequestStatus(strings.ToLower(strings.TrimSpace(v)))
	switch st {
	case BuildRequestPending, BuildRequestConfirmed, BuildRequestAssembling,
		BuildRequestShipped, BuildRequestCancelled:
		return st, nil
	}
	return "", &ValidationError{Fields: []string{"status"}, Reason: "unknown status " + v}
}

// CanMoveTo reports whether a request in s may go to next. Shipped and
// cancelled requests are final.
func (s BuildRequestStatus) CanMoveTo(next BuildRequestStatus) bool {
	for _, st := range requestTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// RequestLine is a stored BuildLine, reduced like a saved build.
type RequestLine struct {
	Category Category     `json:"category"`
	Ref      ComponentRef `json:"ref"`
}

type BuildRequestRecord struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Status          BuildRequestStatus `gorm:"type:varchar(30);index" json:"status"`
	CustomerID      *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	UserID          string             `gorm:"size:64;index" json:"user_id,omitempty"`
	Name            string             `gorm:"size:140" json:"name"`
	Email           string             `gorm:"size:140;index" json:"email"`
	Phone           string             `gorm:"size:60" json:"phone"`
	Address         string             `gorm:"size:255" json:"address"`
	City            string             `gorm:"size:120" json:"city"`
	ZipCode         string             `gorm:"size:20" json:"zip_code"`
	Instructions    string             `gorm:"type:text" json:"special_instructions"`
	Lines           []RequestLine      `gorm:"type:jsonb;serializer:json" json:"lines"`
	ComponentsTotal float64            `gorm:"type:decimal(12,2)" json:"components_total"`
	ShippingCost    float64            `gorm:"type:decimal(12,2)" json:"shipping_cost"`
	TechnicianCost  float64            `gorm:"type:decimal(12,2)" json:"technician_cost"`
	WarrantyCost    float64            `gorm:"type:decimal(12,2)" json:"warranty_cost"`
	GrandTotal      float64            `gorm:"type:decimal(12,2)" json:"grand_total"`
	Forwarded       bool               `gorm:"not null;default:false" json:"forwarded"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (BuildRequestRecord) TableName() string { return "build_requests" }

// NewRequestRecord reduces a composed request to its stored form.
func NewRequestRecord(r *BuildRequest) *BuildRequestRecord {
	lines := make([]RequestLine, 0, len(r.Components))
	for _, l := range r.Components {
		lines = append(lines, RequestLine{Category: l.Category, Ref: l.Component.Ref()})
	}
	c := r.CustomerInfo
	return &BuildRequestRecord{
		ID:              uuid.New(),
		Status:          BuildRequestPending,
		Name:            strings.TrimSpace(c.Name),
		Email:           NormalizeEmail(c.Email),
		Phone:           c.Phone,
		Address:         c.Address,
		City:            c.City,
		ZipCode:         c.ZipCode,
		Instructions:    c.SpecialInstructions,
		Lines:           lines,
		ComponentsTotal: r.Pricing.ComponentsTotal,
		ShippingCost:    r.Pricing.ServiceCharges.Shipping,
		TechnicianCost:  r.Pricing.ServiceCharges.Technician,
		WarrantyCost:    r.Pricing.ServiceCharges.Warranty,
		GrandTotal:      r.Pricing.GrandTotal,
	}
}

type BuildRequestRepo interface {
	Save(ctx context.Context, r *BuildRequestRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*BuildRequestRecord, error)
	ListByEmail(ctx context.Context, email string) ([]BuildRequestRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status BuildRequestStatus) error
}

// Submitter hands a composed request to whoever fulfils it. ErrNotForwarded
// means the request was accepted but nobody received it.
type Submitter interface {
	Submit(ctx context.Context, id uuid.UUID, r *BuildRequest) error
}

package enums

import "fmt"

// FulfillmentStatus tracks delivery progress of the work behind an order. It
// is independent from PaymentStatus and only ever set by external updates.
type FulfillmentStatus string

const (
	FulfillmentStatusPending    FulfillmentStatus = "pending"
	FulfillmentStatusConfirmed  FulfillmentStatus = "confirmed"
	FulfillmentStatusInProgress FulfillmentStatus = "in_progress"
	FulfillmentStatusCompleted  FulfillmentStatus = "completed"
	FulfillmentStatusCancelled  FulfillmentStatus = "cancelled"
)

// FulfillmentDisplay is the dashboard presentation of a status.
type FulfillmentDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

const unknownFulfillmentColor = "#71717a"

var fulfillmentDisplays = map[FulfillmentStatus]FulfillmentDisplay{
	FulfillmentStatusPending:    {Label: "En attente", Color: "#f59e0b"},
	FulfillmentStatusConfirmed:  {Label: "Confirmée", Color: "#3b82f6"},
	FulfillmentStatusInProgress: {Label: "En cours", Color: "#8b5cf6"},
	FulfillmentStatusCompleted:  {Label: "Terminée", Color: "#10b981"},
	FulfillmentStatusCancelled:  {Label: "Annulée", Color: "#ef4444"},
}

var validFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentStatusPending,
	FulfillmentStatusConfirmed,
	FulfillmentStatusInProgress,
	FulfillmentStatusCompleted,
	FulfillmentStatusCancelled,
}

// String implements fmt.Stringer.
func (f FulfillmentStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentStatus.
func (f FulfillmentStatus) IsValid() bool {
	_, ok := fulfillmentDisplays[f]
	return ok
}

// Display returns the label and colour for the status. Unknown values keep
// their raw text and a neutral grey.
func (f FulfillmentStatus) Display() FulfillmentDisplay {
	if d, ok := fulfillmentDisplays[f]; ok {
		return d
	}
	return FulfillmentDisplay{Label: string(f), Color: unknownFulfillmentColor}
}

func (f FulfillmentStatus) Label() string { return f.Display().Label }

func (f FulfillmentStatus) Color() string { return f.Display().Color }

// ParseFulfillmentStatus converts raw input into a FulfillmentStatus.
func ParseFulfillmentStatus(value string) (FulfillmentStatus, error) {
	for _, candidate := range validFulfillmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment status %q", value)
}

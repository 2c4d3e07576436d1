package ui

import (
	"context"
	"time"

	"github.com/al-bashkir/edge-groups/internal/edge"
)

// PageType selects the create or edit presentation of the edge group form.
type PageType string

const (
	PageCreate PageType = "create"
	PageEdit   PageType = "edit"
)

// FormAction persists a submitted group and returns the stored value.
// It runs inside a tea.Cmd, never on the update loop.
type FormAction func(ctx context.Context, g edge.Group) (edge.Group, error)

// FormBindings is what a container hands to the edge group form.
type FormBindings struct {
	// Model is the starting value. The form edits its own copy and pushes
	// every change back through OnChange.
	Model       edge.Group
	ActionLabel string
	Action      FormAction
	PageType    PageType
	OnChange    func(edge.Group)
	// Timeout bounds a single Action call. Zero means no deadline.
	Timeout time.Duration
}

// formState is presentation state only; the container owns the outcome.
type formState int

const (
	formLoading formState = iota
	formReady
	formSubmitting
)

package historique

import "time"

// Action labels an audit entry. The catalog actions form a closed set;
// stock adjustments use free-form labels.
type Action string

const (
	ActionAdd          Action = "AJOUT"
	ActionModification Action = "MODIFICATION"
	ActionDeletion     Action = "SUPPRESSION"
	ActionActivation   Action = "ACTIVATION"
	ActionDeactivation Action = "DESACTIVATION"

	ActionStockAdded   Action = "STOCK AJOUTÉ"
	ActionStockRemoved Action = "STOCK RETIRÉ"
)

// Kind tells which catalog an entry refers to.
type Kind string

const (
	KindNormal    Kind = "NORMAL"
	KindSensitive Kind = "SENSIBLE"
)

// DefaultActor is recorded until requests carry an authenticated user.
const DefaultActor = "Admin"

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Entry is one row of the historiques table. It is written once and never
// changed; ProductName is a snapshot taken when the action happened.
type Entry struct {
	ID          int       `json:"id"`
	Action      Action    `json:"action"`
	ProductID   *int      `json:"produit_id"`
	ProductName *string   `json:"produit_nom"`
	Kind        *Kind     `json:"type_produit"`
	Actor       string    `json:"utilisateur"`
	Details     *string   `json:"details"`
	CheckoutID  *string   `json:"checkout_id"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Record is the input accepted by Service.Record.
type Record struct {
	Action      Action
	ProductID   *int
	ProductName string
	Kind        Kind
	Actor       string
	Details     string
	CheckoutID  *string
}

// Filter narrows Query results by equality. Empty fields match everything.
type Filter struct {
	Action string
	Kind   string
	Limit  int
}

package models

import (
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/idgen"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"golang.org/x/exp/slices"
)

type Role string

const (
	RoleAdmin           Role = "ADMIN"
	RolePicker          Role = "PICKER"
	RoleTransportWorker Role = "TRANSPORT_WORKER"
)

var Roles = []Role{RoleAdmin, RolePicker, RoleTransportWorker}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

type BinType string

const (
	BinTypeInventory BinType = "INVENTORY"
	BinTypePickUp    BinType = "PICK_UP"
	BinTypeCart      BinType = "CART"
	BinTypeAisle     BinType = "AISLE"
)

var BinTypes = []BinType{BinTypeInventory, BinTypePickUp, BinTypeCart, BinTypeAisle}

func (t BinType) Valid() bool {
	return slices.Contains(BinTypes, t)
}

// ParseBinType accepts the spellings warehouse staff type into spreadsheets
// ("pick up", "pick-up", "pickup", "PICK_UP").
func ParseBinType(raw string) (BinType, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if s == "PICKUP" {
		s = string(BinTypePickUp)
	}
	t := BinType(s)
	return t, t.Valid()
}

// assignID fills an empty snowflake primary key.
func assignID(id *types.SnowflakeID) {
	if id.IsZero() {
		*id = types.SnowflakeID(idgen.GenerateID())
	}
}

package models

// Position is the role assigned to a customer account.
type Position int

const (
	PositionAdmin      Position = 0
	PositionGroupAdmin Position = 1
	PositionUser       Position = 2
)

// Valid reports whether p is one of the defined positions.
func (p Position) Valid() bool {
	switch p {
	case PositionAdmin, PositionGroupAdmin, PositionUser:
		return true
	}
	return false
}

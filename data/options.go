package data

import "fmt"

// ItemKind distinguishes folders from files.
type ItemKind int

const (
	KindFolder ItemKind = iota
	KindFile
)

func (k ItemKind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Other returns the opposite kind.
func (k ItemKind) Other() ItemKind {
	if k == KindFile {
		return KindFolder
	}
	return KindFile
}

// CollisionOption decides what a create operation does when the desired name is taken.
type CollisionOption int

const (
	// GenerateUniqueName appends " (n)" with the lowest free n.
	GenerateUniqueName CollisionOption = iota
	// ReplaceExisting deletes an existing item of the same kind first.
	ReplaceExisting
	// FailIfExists fails with ErrExist whenever the name is taken.
	FailIfExists
	// OpenIfExists returns an existing item of the same kind without creating.
	OpenIfExists
)

func (o CollisionOption) String() string {
	switch o {
	case GenerateUniqueName:
		return "GenerateUniqueName"
	case ReplaceExisting:
		return "ReplaceExisting"
	case FailIfExists:
		return "FailIfExists"
	case OpenIfExists:
		return "OpenIfExists"
	default:
		return fmt.Sprintf("CollisionOption(%d)", int(o))
	}
}

// ParseCollisionOption maps the names accepted by the command layer.
func ParseCollisionOption(value string) (CollisionOption, error) {
	switch value {
	case "unique", "GenerateUniqueName":
		return GenerateUniqueName, nil
	case "replace", "ReplaceExisting":
		return ReplaceExisting, nil
	case "fail", "FailIfExists":
		return FailIfExists, nil
	case "open", "OpenIfExists":
		return OpenIfExists, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized collision option '%s'", ErrInvalid, value)
	}
}

// DeleteOption is accepted by delete operations. Hosts have no recycle bin,
// so both values remove the item permanently.
type DeleteOption int

const (
	DeleteDefault DeleteOption = iota
	DeletePermanent
)

// Valid reports whether o is one of the enumerated values.
func (o DeleteOption) Valid() bool {
	return o == DeleteDefault || o == DeletePermanent
}

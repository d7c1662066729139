package enums

import "strings"

type Role string

const (
	RoleVisitor Role = "visitor"
	RoleEscort  Role = "escort"
	RoleAdmin   Role = "admin"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleVisitor:
		return RoleVisitor, true
	case RoleEscort:
		return RoleEscort, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

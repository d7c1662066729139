package enums

import "strings"

type InteractionKind string

const (
	InteractionPhone    InteractionKind = "phone"
	InteractionWhatsApp InteractionKind = "whatsapp"
	InteractionViber    InteractionKind = "viber"
	InteractionSocial   InteractionKind = "social"
)

func ParseInteractionKind(raw string) (InteractionKind, bool) {
	switch InteractionKind(strings.ToLower(strings.TrimSpace(raw))) {
	case InteractionPhone:
		return InteractionPhone, true
	case InteractionWhatsApp:
		return InteractionWhatsApp, true
	case InteractionViber:
		return InteractionViber, true
	case InteractionSocial:
		return InteractionSocial, true
	}
	return "", false
}

package enums

import "strings"

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderTrans  Gender = "trans"
)

func ParseGender(raw string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderFemale:
		return GenderFemale, true
	case GenderMale:
		return GenderMale, true
	case GenderTrans:
		return GenderTrans, true
	}
	return "", false
}

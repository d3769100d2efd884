package security

// maskedShort replaces passwords too short to reveal any character.
const maskedShort = "**"

// MaskPassword hides all but the first and last character of a password.
//
// Rules:
//   - "" stays ""
//   - one or two characters become "**"
//   - anything longer becomes first + "***" + last
//
// Characters are counted as runes, so multi-byte passwords are never split
// mid-character.
func MaskPassword(password string) string {
	if password == "" {
		return ""
	}
	runes := []rune(password)
	if len(runes) <= 2 {
		return maskedShort
	}
	return string(runes[0]) + "***" + string(runes[len(runes)-1])
}

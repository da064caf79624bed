package billing

type Benefits map[string]string

// CheckEligibility is a placeholder eligibility check: a member ID whose last
// character is an even digit is "eligible" and gets a fixed three-tier
// benefits map. Anything else is ineligible with no benefits.
func CheckEligibility(memberID string) (bool, Benefits) {
	if memberID == "" {
		return false, Benefits{}
	}

	last := memberID[len(memberID)-1]
	if last < '0' || last > '9' || (last-'0')%2 != 0 {
		return false, Benefits{}
	}

	return true, Benefits{
		"preventive": "80%",
		"basic":      "60%",
		"major":      "40%",
	}
}

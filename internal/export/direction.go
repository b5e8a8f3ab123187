package export

// Direction is the posting direction flag, spelled the way the receiving
// system expects it.
type Direction string

const (
	Debet  Direction = "debet"
	Kredit Direction = "kredit"
)

// PostingDirection decides the direction of a grouped posting. The presence
// of a cost center is the single source of truth: a sale credits the
// cost-centered revenue account and debits the bank account, and a refund
// reverses both sides.
//
//	costCenter  refund  direction
//	present     no      kredit
//	absent      no      debet
//	present     yes     debet
//	absent      yes     kredit
func PostingDirection(costCenter string, refund bool) Direction {
	if refund {
		if costCenter != "" {
			return Debet
		}
		return Kredit
	}
	if costCenter != "" {
		return Kredit
	}
	return Debet
}

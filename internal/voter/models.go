// Package voter owns registration records and the durable verification
// counter. The counter counts successful verification events; which events are
// allowed to happen is the ledger's concern.
package voter

// Voter identifies a registrant. VoterID is the externally supplied lookup and
// dedup key; uniqueness is deliberately NOT enforced at registration (see
// DESIGN.md).
type Voter struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	VoterID string `json:"voter_id"`
}

package solana

// Satisfies reports whether the status meets the requested commitment.
//
// Finalized requires a rooted status (no confirmation count). Confirmed
// trusts the explicit confirmationStatus when the node sends one and only
// then falls back to the confirmation count, which is what nodes on older
// software report. Processed, or no commitment at all, is met by any status.
func (s *TransactionStatus) Satisfies(requested Commitment) bool {
	switch requested {
	case CommitmentFinalized:
		return s.Confirmations == nil
	case CommitmentConfirmed:
		if s.ConfirmationStatus != nil {
			return *s.ConfirmationStatus != ConfirmationProcessed
		}
		return s.Confirmations == nil || *s.Confirmations > 1
	default:
		return true
	}
}

// EffectiveConfirmationStatus returns the explicit status or derives one
// from the confirmation count.
func (s *TransactionStatus) EffectiveConfirmationStatus() ConfirmationStatus {
	if s.ConfirmationStatus != nil {
		return *s.ConfirmationStatus
	}
	switch {
	case s.Confirmations == nil:
		return ConfirmationFinalized
	case *s.Confirmations > 0:
		return ConfirmationConfirmed
	default:
		return ConfirmationProcessed
	}
}

// Succeeded reports whether the transaction executed without error.
func (s *TransactionStatus) Succeeded() bool {
	return len(s.Err) == 0 || string(s.Err) == "null"
}

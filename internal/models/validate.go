package models

// Validate checks a trade before it is accepted into the journal and returns
// the list of problems found. An empty slice means the trade is valid.
//
// Entry-mode exclusivity is enforced here, at the boundary: a detailed trade
// must carry all three price/quantity fields and no realized P/L, a direct
// trade a realized P/L and no price/quantity fields. The calculation engine
// itself tolerates incomplete trades by valuing them at zero, so a mismatch
// between the flag and the populated fields has to be stopped before it is
// stored.
func (t *Trade) Validate() []string {
	var errs []string

	if t.AccountID == "" {
		errs = append(errs, "account is required")
	}
	if t.Symbol == "" {
		errs = append(errs, "symbol is required")
	}
	if t.Direction != DirectionLong && t.Direction != DirectionShort {
		errs = append(errs, "direction must be LONG or SHORT")
	}
	if t.EntryDate == "" {
		errs = append(errs, "entry date is required")
	}
	if t.EntryTime == "" {
		errs = append(errs, "entry time is required")
	}
	if t.ExitDate == "" {
		errs = append(errs, "exit date is required")
	}
	if t.ExitTime == "" {
		errs = append(errs, "exit time is required")
	}
	if t.Commission.IsNegative() {
		errs = append(errs, "commission cannot be negative")
	}

	hasAnyDetailed := t.EntryPrice != nil || t.ExitPrice != nil || t.Quantity != nil
	hasAllDetailed := t.EntryPrice != nil && t.ExitPrice != nil && t.Quantity != nil
	hasDirect := t.RealizedPL != nil

	switch t.EntryMode {
	case EntryModeDetailed:
		if !hasAllDetailed {
			errs = append(errs, "detailed entry requires entry price, exit price, and quantity")
		}
		if hasDirect {
			errs = append(errs, "detailed entry cannot carry a direct realized P/L")
		}
	case EntryModeDirect:
		if !hasDirect {
			errs = append(errs, "direct entry requires a realized P/L")
		}
		if hasAnyDetailed {
			errs = append(errs, "direct entry cannot carry price or quantity fields")
		}
	case "":
		errs = append(errs, "entry mode is required")
	default:
		errs = append(errs, "entry mode must be detailed or direct")
	}

	if t.EntryPrice != nil && !t.EntryPrice.IsPositive() {
		errs = append(errs, "entry price must be greater than 0")
	}
	if t.ExitPrice != nil && !t.ExitPrice.IsPositive() {
		errs = append(errs, "exit price must be greater than 0")
	}
	if t.Quantity != nil && !t.Quantity.IsPositive() {
		errs = append(errs, "quantity must be greater than 0")
	}

	return errs
}

// Validate checks a transaction before it is applied to an account.
func (t *Transaction) Validate() []string {
	var errs []string

	if t.AccountID == "" {
		errs = append(errs, "account is required")
	}
	if t.Type != TransactionDeposit && t.Type != TransactionWithdrawal {
		errs = append(errs, "type must be deposit or withdrawal")
	}
	if !t.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than 0")
	}
	if t.Date == "" {
		errs = append(errs, "date is required")
	}
	if t.Time == "" {
		errs = append(errs, "time is required")
	}

	return errs
}

package main

import (
	"fmt"
	"math"
)

type ActionType string

const (
	BeforeStatementClose ActionType = "BEFORE_STATEMENT_CLOSE"
	ByDueDate            ActionType = "BY_DUE_DATE"
)

type ReasonTag string

const (
	TagMinimumPayment       ReasonTag = "minimum_payment"
	TagUtilizationReporting ReasonTag = "utilization_reporting"
	TagAPRPriority          ReasonTag = "apr_priority"
	TagBalancePayoff        ReasonTag = "balance_payoff"
	TagCashConstraint       ReasonTag = "cash_constraint"
)

type PaymentAction struct {
	AccountID    string      `json:"cardId"`
	AccountName  string      `json:"cardName"`
	ActionType   ActionType  `json:"actionType"`
	AmountCents  int64       `json:"amountCents"`
	TargetDate   CivilDate   `json:"targetDate"`
	Priority     float64     `json:"priority"`
	Reason       string      `json:"reason"`
	ReasonTags   []ReasonTag `json:"reasonTags"`
	MarkedPaidAt *string     `json:"markedPaidAt,omitempty"`
}

// extraPayment records one discretionary assignment, in ranked order.
type extraPayment struct {
	Account     Account
	AmountCents int64
	WantedCents int64
	Date        CivilDate
	BeforeClose bool
}

type Allocation struct {
	Actions            []PaymentAction
	Extras             []extraPayment
	DiscretionaryCents int64
	AllocatedCents     int64
	// Eligible counts ranked accounts with balance left after their minimum.
	Eligible    int
	Reached     int
	FullyFunded int
}

func strategyTag(s Strategy) ReasonTag {
	switch s {
	case Utilization:
		return TagUtilizationReporting
	case Snowball:
		return TagBalancePayoff
	default:
		return TagAPRPriority
	}
}

func extraReason(s Strategy, a Account) string {
	switch s {
	case Utilization:
		return "Extra paydown before the statement closes lowers the utilization reported to the bureaus."
	case Snowball:
		return "Extra paydown toward the smallest balance to close it out sooner."
	default:
		return fmt.Sprintf("Extra paydown on the highest-APR balance (%s).", bpsToAPR(a.APRBps))
	}
}

func priorityFor(rank, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(float64(n-rank)/float64(n)*100) / 100
}

// AllocatePayments runs the two-pass allocation over accounts already in
// ranked order. Minimums are always emitted; discretionary cash is handed out
// greedily, each account taking as much as its remaining balance allows
// before the next ranked account is considered.
func AllocatePayments(ranked []Account, discretionaryCents int64, strategy Strategy, ref CivilDate) Allocation {
	alloc := Allocation{DiscretionaryCents: discretionaryCents}
	n := len(ranked)

	type slot struct {
		before *PaymentAction
		due    *PaymentAction
	}
	slots := make([]slot, n)

	// 1) Minimums
	for i, a := range ranked {
		minCents := effectiveMinimum(a)
		if minCents <= 0 {
			continue
		}
		due := ResolveNextDueDate(a, ref)
		slots[i].due = &PaymentAction{
			AccountID:   a.ID,
			AccountName: a.Name,
			ActionType:  ByDueDate,
			AmountCents: minCents,
			TargetDate:  due,
			Priority:    priorityFor(i, n),
			Reason:      fmt.Sprintf("Minimum payment due by %s.", due),
			ReasonTags:  []ReasonTag{TagMinimumPayment},
		}
	}

	// 2) Discretionary, in ranked order
	remaining := discretionaryCents
	tag := strategyTag(strategy)
	for i, a := range ranked {
		wanted := a.BalanceCents - effectiveMinimum(a)
		if wanted <= 0 {
			continue
		}
		alloc.Eligible++
		if remaining <= 0 {
			continue
		}

		amount := min(wanted, remaining)
		tags := []ReasonTag{tag}
		if amount < wanted {
			tags = append(tags, TagCashConstraint)
		}

		closeDate := ResolveNextStatementClose(a, ref)
		due := ResolveNextDueDate(a, ref)
		extra := extraPayment{Account: a, AmountCents: amount, WantedCents: wanted}

		if !closeDate.After(due) {
			slots[i].before = &PaymentAction{
				AccountID:   a.ID,
				AccountName: a.Name,
				ActionType:  BeforeStatementClose,
				AmountCents: amount,
				TargetDate:  closeDate,
				Priority:    priorityFor(i, n),
				Reason:      extraReason(strategy, a),
				ReasonTags:  tags,
			}
			extra.Date, extra.BeforeClose = closeDate, true
		} else if slots[i].due != nil {
			d := slots[i].due
			d.AmountCents += amount
			d.Reason = fmt.Sprintf("Minimum plus %s extra, due by %s. %s", money(amount), due, extraReason(strategy, a))
			d.ReasonTags = append(d.ReasonTags, tags...)
			extra.Date = due
		} else {
			slots[i].due = &PaymentAction{
				AccountID:   a.ID,
				AccountName: a.Name,
				ActionType:  ByDueDate,
				AmountCents: amount,
				TargetDate:  due,
				Priority:    priorityFor(i, n),
				Reason:      extraReason(strategy, a),
				ReasonTags:  tags,
			}
			extra.Date = due
		}

		remaining -= amount
		alloc.AllocatedCents += amount
		alloc.Reached++
		if amount == wanted {
			alloc.FullyFunded++
		}
		alloc.Extras = append(alloc.Extras, extra)
	}

	for _, s := range slots {
		if s.before != nil {
			alloc.Actions = append(alloc.Actions, *s.before)
		}
		if s.due != nil {
			alloc.Actions = append(alloc.Actions, *s.due)
		}
	}
	return alloc
}

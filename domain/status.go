package domain

import "strings"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decided reports whether s is a status an admin can move an item to.
// Pending is only ever entered at creation.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Target returns the status a decision moves an item to. Decisions apply from
// any current status, so re-moderating a decided item simply overwrites it.
func (d Decision) Target() (Status, error) {
	switch Decision(strings.ToLower(string(d))) {
	case DecisionApprove:
		return StatusApproved, nil
	case DecisionReject:
		return StatusRejected, nil
	default:
		return "", &ValidationError{Field: "decision", Reason: "must be one of approve, reject"}
	}
}

type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterPending  StatusFilter = StatusFilter(StatusPending)
	FilterApproved StatusFilter = StatusFilter(StatusApproved)
	FilterRejected StatusFilter = StatusFilter(StatusRejected)
)

// ParseStatusFilter maps an empty string to FilterAll.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterApproved, FilterRejected:
		return f, nil
	default:
		return "", &ValidationError{Field: "status", Reason: "must be one of all, pending, approved, rejected"}
	}
}

func (f StatusFilter) Match(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

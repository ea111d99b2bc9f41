package ari

// ExecSet is an execution request set: a nonce plus the ordered sequence
// of ARI targets (typically CTRL object references) to execute
// (spec.md §3.1, scenario S1).
type ExecSet struct {
	Nonce   ARI
	Targets []ARI
}

func (ExecSet) isPrimitive() {}

// Rpt is a single report: the object reference that produced it, the
// timepoint it was produced at, and the ordered sequence of reported
// values.
type Rpt struct {
	Source    ARI
	Timestamp *TP
	Items     []ARI
}

func (Rpt) isPrimitive() {}

// RptSet is a batch of reports sharing one nonce, correlating them with
// the ExecSet (or other request) that produced them.
type RptSet struct {
	Nonce   ARI
	Reports []Rpt
}

func (RptSet) isPrimitive() {}

package core

import "encoding/json"

// Reaction is the outcome of one decision: either a transaction to submit
// or idle. The zero value is idle.
type Reaction struct {
	Transaction *TransactionRequest
}

// Idle returns the reaction that submits nothing.
func Idle() Reaction { return Reaction{} }

// Submit returns a reaction carrying req.
func Submit(req *TransactionRequest) Reaction { return Reaction{Transaction: req} }

// IsIdle reports whether r carries no transaction.
func (r Reaction) IsIdle() bool { return r.Transaction == nil }

func (r Reaction) MarshalJSON() ([]byte, error) {
	if r.IsIdle() {
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{"idle"})
	}
	return json.Marshal(struct {
		Kind        string              `json:"kind"`
		Transaction *TransactionRequest `json:"transaction"`
	}{"transaction", r.Transaction})
}

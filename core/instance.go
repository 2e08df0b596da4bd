package core

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotFound is returned when a requested object does not exist in storage.
	ErrNotFound = errors.New("not found")
	// ErrInvalidIndex means an instance index is missing or does not fit in a uint256.
	ErrInvalidIndex = errors.New("invalid instance index")
)

// Concern identifies the deployed contract (and the user on whose behalf
// the dispatcher acts) an instance belongs to. It is passed through to
// transaction requests unmodified and never interpreted here.
type Concern struct {
	ContractAddress common.Address `json:"contract_address"`
	UserAddress     common.Address `json:"user_address"`
}

// ServiceStatus is the operator-facing status of a service as reported by
// the dispatcher's registry.
type ServiceStatus struct {
	ServiceName   string `json:"service_name" yaml:"service_name"`
	ServiceMethod string `json:"service_method" yaml:"service_method"`
	Status        uint32 `json:"status" yaml:"status"`
	Description   string `json:"description" yaml:"description"`
}

// StatusLookup resolves the service status for a display name. A nil result
// means the registry knows nothing about the service.
type StatusLookup interface {
	ServiceStatus(name string) *ServiceStatus
}

// Instance is one tracked occurrence of a contract's state.
// EncodedState holds the raw positional state as delivered by the
// dispatcher: either a JSON field list or 0x-prefixed ABI return data.
// In a pretty instance it holds the named-field JSON document instead.
type Instance struct {
	Name          string         `json:"name"`
	Concern       Concern        `json:"concern"`
	Index         *big.Int       `json:"index"`
	EncodedState  string         `json:"encoded_state"`
	SubInstances  []*Instance    `json:"sub_instances"`
	ServiceStatus *ServiceStatus `json:"service_status"`
}

// CheckIndex reports whether the index can be passed to the contract as a
// uint256. A missing index is an error, never round zero.
func (i *Instance) CheckIndex() error {
	if err := checkUint256(i.Index); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	return nil
}

// checkUint256 rejects what the ABI packer would otherwise wrap silently.
func checkUint256(v *big.Int) error {
	switch {
	case v == nil:
		return fmt.Errorf("missing value")
	case v.Sign() < 0:
		return fmt.Errorf("%s is negative", v)
	case v.BitLen() > 256:
		return fmt.Errorf("%s exceeds 256 bits", v)
	}
	return nil
}

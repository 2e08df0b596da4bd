// Package archive keeps the service statuses the dispatcher's registry
// reports, keyed by display name, and serves them to the presenter.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cartesi/pos-dlib/core"
	"github.com/cartesi/pos-dlib/storage"
)

const prefixService = "svc:"

// Archive implements core.StatusLookup on top of a storage.DB.
type Archive struct {
	db     storage.DB
	logger *zap.Logger
}

// New wraps db. A nil logger discards lookup failures.
func New(db storage.DB, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{db: db, logger: logger}
}

// SetService records status under its ServiceName, replacing any previous entry.
func (a *Archive) SetService(status core.ServiceStatus) error {
	if status.ServiceName == "" {
		return errors.New("archive: service name required")
	}
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal service %s: %w", status.ServiceName, err)
	}
	return a.db.Put([]byte(prefixService+status.ServiceName), data)
}

// ServiceStatus returns the recorded status for name, or nil if there is
// none or it cannot be read. Read failures are logged, not returned: a
// missing status must never block presenting an instance.
func (a *Archive) ServiceStatus(name string) *core.ServiceStatus {
	data, err := a.db.Get([]byte(prefixService + name))
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		a.logger.Warn("service status lookup failed", zap.String("service", name), zap.Error(err))
		return nil
	}
	var status core.ServiceStatus
	if err := json.Unmarshal(data, &status); err != nil {
		a.logger.Warn("corrupt service status", zap.String("service", name), zap.Error(err))
		return nil
	}
	return &status
}

// Services lists every recorded status in name order.
func (a *Archive) Services() ([]core.ServiceStatus, error) {
	var (
		out    []core.ServiceStatus
		decErr error
	)
	err := a.db.Range([]byte(prefixService), func(key, value []byte) bool {
		var status core.ServiceStatus
		if err := json.Unmarshal(value, &status); err != nil {
			decErr = fmt.Errorf("decode %s: %w", key, err)
			return false
		}
		out = append(out, status)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, decErr
}

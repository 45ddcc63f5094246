package layout

import (
	"fmt"
	"sync"

	"github.com/gogpu/ui/tree"
)

// MeasurementError reports that a node's custom measurement rule failed,
// for example because of an internally inconsistent constraint. The
// offending subtree is zero-sized and excluded from collection for the
// frame; siblings are unaffected.
type MeasurementError struct {
	// Node is the node whose rule failed.
	Node tree.NodeID

	// Err is the error returned by the rule.
	Err error
}

// Error implements the error interface.
func (e *MeasurementError) Error() string {
	return fmt.Sprintf("layout: measurement failed for node %d: %v", e.Node, e.Err)
}

// Unwrap returns the underlying policy error.
func (e *MeasurementError) Unwrap() error {
	return e.Err
}

// diagnostics collects per-node measurement errors from concurrent
// measure workers.
type diagnostics struct {
	mu   sync.Mutex
	errs []*MeasurementError
}

func (d *diagnostics) add(node tree.NodeID, err error) {
	d.mu.Lock()
	d.errs = append(d.errs, &MeasurementError{Node: node, Err: err})
	d.mu.Unlock()
}

func (d *diagnostics) take() []*MeasurementError {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.errs
	d.errs = nil
	return out
}

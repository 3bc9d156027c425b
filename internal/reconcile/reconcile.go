// Package reconcile compares same-sweep inventory results across the two
// margin-type variants of one host.
package reconcile

import "github.com/fangwater/inventory-watch/internal/model"

// Report is the outcome of one per-host comparison.
type Report struct {
	Host  string
	Left  string // margin type of the left result
	Right string // margin type of the right result

	// Skipped is set when either variant's fetch faulted. A partial
	// comparison would report false negatives, so none is attempted.
	Skipped bool
	Diffs   []model.DiffEntry
}

// Equal reports whether the comparison ran and found no divergence.
func (r Report) Equal() bool {
	return !r.Skipped && len(r.Diffs) == 0
}

// Compare diffs two variant results over the tracked asset list. A value
// missing from either side is the N/A sentinel, which compares unequal to any
// present value. Either result nil means its fetch faulted and the whole
// comparison is skipped.
func Compare(host, leftType, rightType string, left, right *model.InventoryResult, assets []string) Report {
	report := Report{Host: host, Left: leftType, Right: rightType}

	if left == nil || right == nil {
		report.Skipped = true
		return report
	}

	for _, asset := range assets {
		lv, rv := left.Amount(asset), right.Amount(asset)
		if lv != rv {
			report.Diffs = append(report.Diffs, model.DiffEntry{Asset: asset, Left: lv, Right: rv})
		}
	}

	return report
}

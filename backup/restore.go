package backup

import (
	"context"
	"fmt"

	"harvesterbilling/repository"
)

type RestorePolicy string

const (
	// PolicyOverwrite writes every snapshot key verbatim; last writer wins.
	PolicyOverwrite RestorePolicy = "overwrite"
	// PolicyKeepLocal only fills keys that are absent or unchanged locally.
	PolicyKeepLocal RestorePolicy = "keep-local"
)

func ParseRestorePolicy(s string) (RestorePolicy, error) {
	switch p := RestorePolicy(s); p {
	case "":
		return PolicyOverwrite, nil
	case PolicyOverwrite, PolicyKeepLocal:
		return p, nil
	default:
		return "", fmt.Errorf("unknown restore policy %q", s)
	}
}

// RestoreReport lists what a restore did. Conflicts are keys whose local value
// differed from the snapshot before the restore ran.
type RestoreReport struct {
	Policy    RestorePolicy `json:"policy"`
	Written   []string      `json:"written"`
	Conflicts []string      `json:"conflicts"`
	Skipped   []string      `json:"skipped"`
}

// Restore applies a snapshot to the store. It never touches keys missing from the
// snapshot, and never overwrites the local cloud credential.
func Restore(ctx context.Context, kv repository.KVStore, snap *Snapshot, policy RestorePolicy) (*RestoreReport, error) {
	if policy == "" {
		policy = PolicyOverwrite
	}
	report := &RestoreReport{Policy: policy, Written: []string{}, Conflicts: []string{}, Skipped: []string{}}

	for _, key := range snap.Keys() {
		if excluded(key) {
			report.Skipped = append(report.Skipped, key)
			continue
		}
		value := snap.Data[key]

		local, ok, err := kv.Get(ctx, key)
		if err != nil {
			return report, fmt.Errorf("read %s: %w", key, err)
		}
		if ok && local == value {
			continue
		}
		if ok {
			report.Conflicts = append(report.Conflicts, key)
			if policy == PolicyKeepLocal {
				report.Skipped = append(report.Skipped, key)
				continue
			}
		}
		if err := kv.Set(ctx, key, value); err != nil {
			return report, fmt.Errorf("write %s: %w", key, err)
		}
		report.Written = append(report.Written, key)
	}
	return report, nil
}

package service

import "coscribe/internal/domain/models"

// diffOps computes a structural diff between two operation lists. It is an
// LCS over structurally equal ops: ops only in the newer list become added,
// ops only in the older list become removed, and a removed op immediately
// followed by an added op at the same alignment point collapses into a single
// changed record. Identical lists produce an empty result.
func diffOps(before, after []models.Op) []models.ChangeRecord {
	// lcs[i][j] = length of the longest common subsequence of before[i:] and
	// after[j:]
	n, m := len(before), len(after)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if before[i].Equal(after[j]) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	changes := []models.ChangeRecord{}
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case before[i].Equal(after[j]):
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			// before[i] has no match ahead; pair it with an unmatched op on
			// the other side as a modification when possible.
			if lcs[i+1][j+1] == lcs[i+1][j] {
				b, a := before[i], after[j]
				changes = append(changes, models.ChangeRecord{
					Type:   models.ChangeChanged,
					Index:  j,
					Before: &b,
					After:  &a,
				})
				i++
				j++
				continue
			}
			b := before[i]
			changes = append(changes, models.ChangeRecord{
				Type:   models.ChangeRemoved,
				Index:  i,
				Before: &b,
			})
			i++
		default:
			a := after[j]
			changes = append(changes, models.ChangeRecord{
				Type:  models.ChangeAdded,
				Index: j,
				After: &a,
			})
			j++
		}
	}
	for ; i < n; i++ {
		b := before[i]
		changes = append(changes, models.ChangeRecord{
			Type:   models.ChangeRemoved,
			Index:  i,
			Before: &b,
		})
	}
	for ; j < m; j++ {
		a := after[j]
		changes = append(changes, models.ChangeRecord{
			Type:  models.ChangeAdded,
			Index: j,
			After: &a,
		})
	}

	return changes
}

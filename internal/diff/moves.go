package diff

import "slices"

type move struct {
	from, to int
}

// planMoves returns the moves rearranging current into target. Both hold the
// same identities. Elements on a longest increasing subsequence of target
// positions stay put; every other element is moved, in target order, to
// just after its target predecessor.
func planMoves(current, target []string) []move {
	if len(current) < 2 {
		return nil
	}

	pos := make(map[string]int, len(current))
	for i, id := range current {
		pos[id] = i
	}
	seq := make([]int, len(target))
	for k, id := range target {
		seq[k] = pos[id]
	}
	stay := longestIncreasing(seq)
	if len(stay) == len(target) {
		return nil
	}

	arr := slices.Clone(current)
	var moves []move
	for k, id := range target {
		if stay[k] {
			continue
		}
		from := slices.Index(arr, id)
		arr = slices.Delete(arr, from, from+1)

		to := 0
		if k > 0 {
			to = slices.Index(arr, target[k-1]) + 1
		}
		arr = slices.Insert(arr, to, id)

		if from != to {
			moves = append(moves, move{from: from, to: to})
		}
	}
	return moves
}

// longestIncreasing marks the positions of seq belonging to one longest
// strictly increasing subsequence. Patience sorting, O(n log n).
func longestIncreasing(seq []int) map[int]bool {
	// tails[l] is the index in seq of the smallest tail of an increasing
	// run of length l+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))

	for i, v := range seq {
		l, _ := slices.BinarySearchFunc(tails, v, func(t, target int) int {
			return seq[t] - target
		})
		if l > 0 {
			prev[i] = tails[l-1]
		} else {
			prev[i] = -1
		}
		if l == len(tails) {
			tails = append(tails, i)
		} else {
			tails[l] = i
		}
	}

	stay := make(map[int]bool, len(tails))
	if len(tails) == 0 {
		return stay
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		stay[i] = true
	}
	return stay
}

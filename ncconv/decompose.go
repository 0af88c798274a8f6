package ncconv

// locate computes one rank's contiguous block of an axis of the given
// extent. The last rank absorbs the integer-division remainder so the
// blocks exactly cover [0, extent).
func locate(rank, size, extent int) (start, count int) {
	num := extent / size
	start = num * rank
	count = num
	if rank == size-1 {
		count += extent % size
	}
	return start, count
}

// Plan computes the slab of a variable owned by one rank: a start-offset
// vector and an extent vector over the variable's stored shape. Only the
// axis with the largest extent is partitioned, ties broken by first
// occurrence. Shapes whose largest axis is below DecompThreshold are not
// split; every rank then receives the zero start and the full extent.
func Plan(shape []int, rank, size int) (start, count []int) {
	start = make([]int, len(shape))
	count = make([]int, len(shape))
	copy(count, shape)
	if len(shape) == 0 || size < 2 {
		return start, count
	}

	maxIdx := 0
	for i, n := range shape {
		if n > shape[maxIdx] {
			maxIdx = i
		}
	}
	if shape[maxIdx] < DecompThreshold {
		return start, count
	}

	start[maxIdx], count[maxIdx] = locate(rank, size, shape[maxIdx])
	return start, count
}

// Split reports whether Plan partitions the given shape at all.
func Split(shape []int) bool {
	for _, n := range shape {
		if n >= DecompThreshold {
			return true
		}
	}
	return false
}

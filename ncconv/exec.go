package ncconv

// Exec describes the process group a conversion runs under. It is passed
// explicitly to every component that needs it; nothing in the engine reads
// ambient process-group state.
type Exec struct {
	Rank int
	Size int
}

// Serial is the execution context of a single-process run.
func Serial() Exec { return Exec{Rank: 0, Size: 1} }

// Parallel reports whether the context describes a multi-rank group.
func (e Exec) Parallel() bool { return e.Size > 1 }

// Last reports whether this rank is the final rank of the group, which
// absorbs the remainder of every decomposed axis.
func (e Exec) Last() bool { return e.Rank == e.Size-1 }

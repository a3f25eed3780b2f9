package interpreter

import "iter"

// seqOf adapts a slice to an iter.Seq, the shape the adapter package's
// resolve_* operations accept as their contexts argument.
func seqOf[T any](s []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

// collect pulls an iter.Seq to completion into a slice. Every call site
// drains exactly one adapter response for one batch of contexts at one
// scope. A scope's batch holds every context that reaches that scope, and
// the walk finishes all scopes for all root contexts before the first row
// is projected, so the surviving contexts for the whole result set are
// held in memory at once.
func collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

// collectFallible pulls a fallible iter.Seq2[T, error] to completion,
// stopping at (and returning) the first non-nil error, matching the
// adapter contract's error-as-terminating-item failure model.
// Like collect, this drains one scope's batch, not the whole query.
func collectFallible[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

package utils

func ProcessWithError(processors []func() error) (err error) {
	for _, processor := range processors {
		if err = processor(); err != nil {
			return
		}
	}
	return
}

// ProcessWithErrors runs funcs in order and stops at the first error.
func ProcessWithErrors(funcs ...func() error) error {
	return ProcessWithError(funcs)
}

func TypedSliceToSet[T comparable](slice []T) map[T]bool {
	m := make(map[T]bool, len(slice))
	for _, v := range slice {
		m[v] = true
	}
	return m
}

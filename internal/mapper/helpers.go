package mapper

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func copyRef[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func int64Ref(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func stringRef(s string) *string { return &s }

package generic

func CopyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	n := make(map[K]V, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}

// CopyNestedMap copies both levels of a two level map. Empty inner
// maps are dropped.
func CopyNestedMap[K1 comparable, K2 comparable, V any](m map[K1]map[K2]V) map[K1]map[K2]V {
	if m == nil {
		return nil
	}
	n := make(map[K1]map[K2]V, len(m))
	for k, inner := range m {
		if len(inner) == 0 {
			continue
		}
		n[k] = CopyMap(inner)
	}
	return n
}

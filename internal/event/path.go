package event

import "strings"

// getPath resolves a dotted path against a nested map[string]any tree.
func getPath(root map[string]any, path string) (any, bool) {
	segs := strings.Split(path, ".")
	var cur any = root
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath writes value at a dotted path, recursively creating intermediate
// maps as needed.
func setPath(root map[string]any, path string, value any) {
	segs := strings.Split(path, ".")
	m := root
	for i, seg := range segs {
		if i == len(segs)-1 {
			m[seg] = value
			return
		}
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[seg] = next
		}
		m = next
	}
}

// deletePath removes the key at a dotted path. Returns false if the path did
// not resolve to an existing key.
func deletePath(root map[string]any, path string) bool {
	segs := strings.Split(path, ".")
	m := root
	for i, seg := range segs {
		if i == len(segs)-1 {
			if _, ok := m[seg]; !ok {
				return false
			}
			delete(m, seg)
			return true
		}
		next, ok := m[seg].(map[string]any)
		if !ok {
			return false
		}
		m = next
	}
	return false
}

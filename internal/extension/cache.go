package extension

import "doctoolkit/internal/metadata"

// Cache memoises ContainerInfo per container type for one documentation
// run. It is not safe for concurrent use.
type Cache struct {
	entries map[*metadata.Type]cacheEntry
}

type cacheEntry struct {
	info *ContainerInfo
	err  error
}

func NewCache() *Cache {
	return &Cache{entries: make(map[*metadata.Type]cacheEntry)}
}

// IsCandidate reports whether t has the shape of an extension container.
func IsCandidate(t *metadata.Type) bool {
	return t != nil && !t.IsNested() && !t.IsGeneric() && t.IsStatic()
}

// Container builds the ContainerInfo for t on first request and returns
// the same result, error included, afterwards.
func (c *Cache) Container(t *metadata.Type) (*ContainerInfo, error) {
	if e, ok := c.entries[t]; ok {
		return e.info, e.err
	}
	info, err := NewContainerInfo(t)
	c.entries[t] = cacheEntry{info: info, err: err}
	return info, err
}

// Normalize returns the extension view of m, or m itself when its
// declaring type is not a container or m is not an extension.
func (c *Cache) Normalize(m *metadata.Method) metadata.MethodInfo {
	if m == nil {
		return nil
	}
	if !IsCandidate(m.DeclaringType) {
		return m
	}
	info, err := c.Container(m.DeclaringType)
	if err != nil {
		return m
	}
	normalized, err := info.NormalizedMethod(m)
	if err != nil {
		return m
	}
	return normalized
}

// ExtensionMember returns the extension view backed by m, or nil.
func (c *Cache) ExtensionMember(m *metadata.Method) Member {
	if m == nil || !IsCandidate(m.DeclaringType) {
		return nil
	}
	info, err := c.Container(m.DeclaringType)
	if err != nil {
		return nil
	}
	member, _ := info.ExtensionMember(m)
	return member
}

// Scan returns the containers among types that declare at least one
// extension member.
func (c *Cache) Scan(types []*metadata.Type) []*ContainerInfo {
	var out []*ContainerInfo
	for _, t := range types {
		if !IsCandidate(t) {
			continue
		}
		info, err := c.Container(t)
		if err != nil || len(info.Members()) == 0 {
			continue
		}
		out = append(out, info)
	}
	return out
}

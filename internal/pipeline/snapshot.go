package pipeline

import (
	"context"
	"fmt"

	"doctoolkit/internal/extension"
	"doctoolkit/internal/metadata"
	"doctoolkit/internal/storage"
	"doctoolkit/internal/xmldoc"
)

// Snapshot flattens the model into storage records.
func (m *Model) Snapshot() (*storage.Snapshot, error) {
	snap := &storage.Snapshot{
		Edges:      m.Graph.Edges,
		Unresolved: m.Graph.Unresolved,
	}

	for _, id := range m.Graph.SortedIDs() {
		s := m.Graph.Nodes[id].Symbol
		snap.Members = append(snap.Members, storage.MemberRecord{
			CodeRef:    s.ID,
			Kind:       s.Kind,
			Name:       s.Name,
			Owner:      s.Owner,
			Assembly:   s.Assembly,
			Documented: s.Documented,
			Extension:  s.Extension,
		})
	}

	for _, ref := range m.Docs.CodeRefs() {
		elem, ok := m.Docs.Lookup(ref)
		if !ok {
			continue
		}
		xml, err := xmldoc.XMLString(elem)
		if err != nil {
			return nil, fmt.Errorf("failed to serialise %s: %w", ref, err)
		}
		snap.Docs = append(snap.Docs, storage.DocRecord{
			CodeRef: ref,
			Summary: xmldoc.ParseMember(elem).Summary,
			XML:     xml,
		})
	}

	for _, info := range m.Extensions {
		container := metadata.CodeRef(info.Container())
		for _, member := range info.Members() {
			snap.Extensions = append(snap.Extensions, extensionRecord(container, member))
		}
	}
	return snap, nil
}

func extensionRecord(container string, member extension.Member) storage.ExtensionRecord {
	rec := storage.ExtensionRecord{
		Kind:         string(member.Kind()),
		Name:         member.Name(),
		ExtendedType: member.DeclaringTypeRef().FullName(),
		Container:    container,
		Static:       member.IsStatic(),
	}
	if marker := member.Block().Marker(); marker != nil {
		rec.Block = marker.Name
	}
	switch v := member.(type) {
	case *extension.MethodView:
		rec.CodeRef = metadata.CodeRef(v.Declared())
	case *extension.PropertyView:
		if accessors := v.Accessors(); len(accessors) > 0 {
			rec.CodeRef = metadata.CodeRef(accessors[0])
		}
	}
	return rec
}

// Persist replaces the stored snapshot with m.
func Persist(ctx context.Context, store storage.SnapshotStore, m *Model) error {
	snap, err := m.Snapshot()
	if err != nil {
		return err
	}
	if err := store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

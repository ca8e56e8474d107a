package icon

// MetadataTable is a read-only name -> Metadata table.
type MetadataTable struct {
	entries map[string]Metadata
}

// NewMetadataTable copies entries into a new table.
func NewMetadataTable(entries map[string]Metadata) MetadataTable {
	t := MetadataTable{entries: make(map[string]Metadata, len(entries))}
	for name, m := range entries {
		t.entries[NormalizeName(name)] = m.Clone()
	}
	return t
}

// Lookup returns a copy of the metadata for name.
func (t MetadataTable) Lookup(name string) (Metadata, bool) {
	m, ok := t.entries[NormalizeName(name)]
	if !ok {
		return Metadata{}, false
	}
	return m.Clone(), true
}

// Len returns the number of entries.
func (t MetadataTable) Len() int {
	return len(t.entries)
}

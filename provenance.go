package agentconf

import "sync"

// Provenance contains source information for configuration fields.
type Provenance struct {
	Fields []FieldProvenance
}

// FieldProvenance describes where a field's value came from.
type FieldProvenance struct {
	FieldPath  string // Go field path (e.g., "Server.Hostname")
	KeyPath    string // Display key (e.g., "server.hostname")
	SourceName string // Provider name (e.g., "env", "file:agent.yaml")
	Secret     bool   // Whether field is secret
}

// defaultSourceName attributes values filled in by the chain itself.
const defaultSourceName = "default"

var provenanceStore sync.Map

// GetProvenance returns provenance metadata for a configuration returned by Chain.Load.
// Thread-safe.
func GetProvenance(cfg *Config) (*Provenance, bool) {
	if cfg == nil {
		return nil, false
	}

	value, ok := provenanceStore.Load(cfg)
	if !ok {
		return nil, false
	}

	prov, ok := value.(*Provenance)
	return prov, ok
}

func storeProvenance(cfg *Config, prov *Provenance) {
	if cfg != nil && prov != nil {
		provenanceStore.Store(cfg, prov)
	}
}

func deleteProvenance(cfg *Config) {
	if cfg != nil {
		provenanceStore.Delete(cfg)
	}
}

// buildProvenance converts per-field source names into Provenance in field order.
func buildProvenance(sources map[string]string) *Provenance {
	prov := &Provenance{Fields: make([]FieldProvenance, 0, len(sources))}
	for _, f := range fields {
		name, ok := sources[f.fieldPath]
		if !ok {
			continue
		}
		prov.Fields = append(prov.Fields, FieldProvenance{
			FieldPath:  f.fieldPath,
			KeyPath:    f.keyPath,
			SourceName: name,
			Secret:     f.secret,
		})
	}
	return prov
}
